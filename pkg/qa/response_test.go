package qa

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Result
		wantErr error
	}{
		{
			name:  "structured",
			input: `{"answer":"A","sources":["s1"]}`,
			want:  Result{Answer: "A", Sources: []string{"s1"}},
		},
		{
			name:  "surrounding whitespace",
			input: "\n  {\"answer\": \"A\", \"sources\": []}  \n",
			want:  Result{Answer: "A", Sources: []string{}},
		},
		{
			name:  "plain text",
			input: "hello",
			want:  Result{Answer: "hello", Sources: []string{}},
		},
		{
			name:  "plain text trimmed",
			input: "  I cannot tell from the document.  ",
			want:  Result{Answer: "I cannot tell from the document.", Sources: []string{}},
		},
		{
			name:  "fenced json is plain text",
			input: "```json\n{\"answer\":\"A\",\"sources\":[]}\n```",
			want:  Result{Answer: "```json\n{\"answer\":\"A\",\"sources\":[]}\n```", Sources: []string{}},
		},
		{
			name:  "non-string sources dropped",
			input: `{"answer":"A","sources":["s1", 2, null, {"x":1}, "s2", true]}`,
			want:  Result{Answer: "A", Sources: []string{"s1", "s2"}},
		},
		{
			name:  "extra fields ignored",
			input: `{"answer":"A","sources":[],"confidence":0.9}`,
			want:  Result{Answer: "A", Sources: []string{}},
		},
		{
			name:    "missing sources",
			input:   `{"answer":"A"}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "null sources",
			input:   `{"answer":"A","sources":null}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "numeric answer",
			input:   `{"answer":42,"sources":[]}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "missing answer",
			input:   `{"sources":["s"]}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "sources is string",
			input:   `{"answer":"A","sources":"s1"}`,
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseResponse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseResponse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse(`{"answer": "A", "sources": [}`)
	if err == nil {
		t.Fatal("Expected decode error")
	}
	if errors.Is(err, ErrInvalidResponse) {
		t.Fatal("Syntax errors are decode errors, not structure errors")
	}
}
