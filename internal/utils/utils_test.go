package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHTML(t *testing.T) {
	in := `<style>p{color:red}</style><p>Hi &amp; welcome</p><script>alert(1)</script>  <b>Ava</b>`
	assert.Equal(t, "Hi & welcome Ava", SanitizeHTML(in))
}

func TestPlainText_KeepsParagraphs(t *testing.T) {
	in := "<p>Hi Ava,</p><p>Checking in on your essay.</p>Thanks<br/>Team"
	assert.Equal(t, "Hi Ava,\nChecking in on your essay.\nThanks\nTeam", PlainText(in))
}

func TestSafeBody_RemovesScripts(t *testing.T) {
	out := SafeBody(`<p onclick="steal()">Hello</p><script>alert(1)</script>`)
	assert.Equal(t, "<p>Hello</p>", out)
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "Jose Nunez", FoldAccents("José Núñez"))
	assert.Equal(t, "Ha Noi", FoldAccents("Hà Nội"))
	assert.Equal(t, "sao paulo", NormalizeSearch("  São Paulo "))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
