package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"résumé final.pdf", "resume_final.pdf"},
		{`C:\Users\me\notes.txt`, "C_Users_me_notes.txt"},
		{"foo$bar!.txt", "foobar.txt"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"日本語.txt", "txt"},
		{"_.hidden_", "hidden"},
		{"CON.txt", "_CON.txt"},
		{"con", "_con"},
		{"COM0.log", "_COM0.log"},
		{"lpt9", "_lpt9"},
		{"LPT4.txt", "_LPT4.txt"},
		{"console.log", "console.log"},
		{"", ""},
		{"   ", ""},
		{"...", ""},
		{"../../", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestSecureFilename_Idempotent(t *testing.T) {
	for _, in := range []string{"a b/c.txt", "résumé.pdf", "report.pdf.enc", "CON"} {
		once := SecureFilename(in)
		assert.Equal(t, once, SecureFilename(once), in)
	}
}

func TestStoredName(t *testing.T) {
	assert.Equal(t, "report.pdf.enc", StoredName("report.pdf"))
}
