package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintVersion_Plain(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out, true)

	got := out.String()
	assert.Contains(t, got, "fmlint dev\n")
	assert.Contains(t, got, "commit: unknown\n")
	assert.Contains(t, got, "go: "+runtime.Version()+"\n")
	assert.Contains(t, got, "platform: "+runtime.GOOS+"/"+runtime.GOARCH+"\n")
}

func TestPrintVersion_Formatted(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out, false)

	got := out.String()
	assert.Contains(t, got, "development build")
	assert.Contains(t, got, "Commit:   unknown")
}

func TestTruncateCommit(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"full hash":  {in: "0123456789abcdef", want: "0123456"},
		"short hash": {in: "abc", want: "abc"},
		"empty":      {in: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateCommit(tt.in))
		})
	}
}
