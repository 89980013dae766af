package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "single line without terminator", content: "only", want: "only"},
		{name: "single line with terminator", content: "only\n", want: "only"},
		{name: "multiple lines", content: "first\nsecond\nthird", want: "third"},
		{name: "multiple lines with terminator", content: "first\nsecond\nthird\n", want: "third"},
		{name: "crlf terminators", content: "first\r\nsecond\r\n", want: "second"},
		{name: "blank last line", content: "first\n\n", want: ""},
		{name: "terminator only", content: "\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTranscript(t, tt.content)

			got, err := LastLine(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLastLine_Empty(t *testing.T) {
	path := writeTranscript(t, "")

	_, err := LastLine(path)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestLastLine_Missing(t *testing.T) {
	_, err := LastLine(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLastLine_SpansChunks(t *testing.T) {
	long := strings.Repeat("x", 3*readChunkSize+17)
	content := "head\n" + long + "\n"

	for _, chunkSize := range []int{1, 2, 7, readChunkSize} {
		r := strings.NewReader(content)

		got, err := lastLine(r, int64(len(content)), chunkSize)
		require.NoError(t, err)
		assert.Equal(t, long, got, "chunk size %d", chunkSize)
	}
}

func TestLastLine_ChunkBoundaryOnTerminator(t *testing.T) {
	content := "abc\ndef\n"

	// second read ends exactly on the first terminator
	got, err := lastLine(strings.NewReader(content), int64(len(content)), 3)
	require.NoError(t, err)
	assert.Equal(t, "def", got)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		wantErr error
	}{
		{
			name: "string content",
			line: `{"type":"user","message":{"role":"user","content":"do X -s"}}`,
			want: "do X -s",
		},
		{
			name:    "tool result list content",
			line:    `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","content":"ok"}]}}`,
			wantErr: ErrNoUserMessage,
		},
		{
			name:    "assistant record",
			line:    `{"type":"assistant","message":{"content":"done -s"}}`,
			wantErr: ErrNoUserMessage,
		},
		{
			name:    "missing message",
			line:    `{"type":"user"}`,
			wantErr: ErrNoUserMessage,
		},
		{
			name:    "non-string type",
			line:    `{"type":1,"message":{"content":"x"}}`,
			wantErr: ErrNoUserMessage,
		},
		{
			name:    "truncated record",
			line:    `{"type":"user","message":{"content":"do X -`,
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "array record",
			line:    `["user"]`,
			wantErr: ErrMalformedRecord,
		},
		{
			name:    "blank line",
			line:    "   ",
			wantErr: ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserMessage([]byte(tt.line))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLastUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "last line is user message",
			content: `{"type":"user","message":{"content":"first"}}` + "\n" + `{"type":"user","message":{"content":"second"}}` + "\n",
			want:    "second",
		},
		{
			name: "skips trailing assistant and tool results",
			content: `{"type":"user","message":{"content":"do X -s"}}` + "\n" +
				`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash"}]}}` + "\n" +
				`{"type":"user","message":{"content":[{"type":"tool_result","content":"ok"}]}}` + "\n",
			want: "do X -s",
		},
		{
			name: "skips malformed lines",
			content: `{"type":"user","message":{"content":"earlier"}}` + "\n" +
				"not json\n" +
				`{"type":"user","message":{"content":"partial`,
			want: "earlier",
		},
		{
			name:    "no user messages",
			content: `{"type":"assistant","message":{"content":"hi"}}` + "\n",
			wantErr: ErrNoUserMessage,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrEmptyTranscript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTranscript(t, tt.content)

			got, err := LastUserMessage(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndsWithMarker(t *testing.T) {
	tests := []struct {
		name    string
		content string
		marker  string
		want    bool
	}{
		{
			name:    "empty transcript",
			content: "",
			marker:  "-s",
			want:    false,
		},
		{
			name:    "marker with trailing whitespace",
			content: `{"type":"user","message":{"content":"refactor this -s  \n"}}` + "\n",
			marker:  "-s",
			want:    true,
		},
		{
			name:    "no marker",
			content: `{"type":"user","message":{"content":"refactor this"}}` + "\n",
			marker:  "-s",
			want:    false,
		},
		{
			name:    "different marker",
			content: `{"type":"user","message":{"content":"refactor this -d"}}` + "\n",
			marker:  "-s",
			want:    false,
		},
		{
			name: "trailing non-user record skipped",
			content: `{"type":"user","message":{"content":"do X -s"}}` + "\n" +
				`{"type":"assistant","message":{"content":[{"type":"text","text":"ok"}]}}`,
			marker: "-s",
			want:   true,
		},
		{
			name:    "truncated last line only",
			content: `{"type":"user","message":{"content":"do X -s`,
			marker:  "-s",
			want:    false,
		},
		{
			name: "truncated last line after non-matching message",
			content: `{"type":"user","message":{"content":"plain request"}}` + "\n" +
				`{"type":"user","message":{"content":"do X -s`,
			marker: "-s",
			want:   false,
		},
		{
			name:    "empty marker",
			content: `{"type":"user","message":{"content":"anything"}}`,
			marker:  "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTranscript(t, tt.content)
			assert.Equal(t, tt.want, EndsWithMarker(path, tt.marker))
		})
	}
}

func TestEndsWithMarker_MissingFile(t *testing.T) {
	assert.False(t, EndsWithMarker(filepath.Join(t.TempDir(), "missing.jsonl"), "-s"))
	assert.False(t, EndsWithMarker("", "-s"))
}

func TestEndsWithMarker_AgreesWithPerMarkerChecks(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"content":"explain the failure -e"}}`+"\n"+
			`{"type":"user","message":[{"type":"tool_result","content":"ok"}]}`+"\n")

	text, err := LastUserMessage(path)
	require.NoError(t, err)

	for _, marker := range []string{"-s", "-d", "-e", "-u"} {
		assert.Equal(t, HasMarker(text, marker), EndsWithMarker(path, marker), "marker %s", marker)
	}
	assert.True(t, EndsWithMarker(path, "-e"))
}

func TestHasMarker(t *testing.T) {
	assert.True(t, HasMarker("please summarize -d", "-d"))
	assert.True(t, HasMarker("please summarize -d\n\t ", "-d"))
	assert.False(t, HasMarker("please summarize", "-d"))
	assert.False(t, HasMarker("-d please", "-d"))
	assert.False(t, HasMarker("anything", ""))
}
