package htmltext

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs become lines",
			in:   `<html><body><p>First paragraph.</p><p>Second paragraph.</p></body></html>`,
			want: "First paragraph.\nSecond paragraph.",
		},
		{
			name: "headings and breaks",
			in:   `<h1>Title</h1>One line<br/>Next line`,
			want: "Title\nOne line\nNext line",
		},
		{
			name: "inline markup joins words",
			in:   `<p>a <em>very</em> good <strong>book</strong></p>`,
			want: "a very good book",
		},
		{
			name: "script and style dropped",
			in:   `<head><title>ignored</title></head><body><script>var x = 1;</script><style>p{}</style><p>kept</p></body>`,
			want: "kept",
		},
		{
			name: "whitespace collapses",
			in:   "<p>spaced\n\t   out\t text</p>",
			want: "spaced out text",
		},
		{
			name: "list items",
			in:   `<ul><li>one</li><li>two</li></ul>`,
			want: "one\ntwo",
		},
		{
			name: "empty document",
			in:   `<html><body></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract([]byte(tt.in))
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractInlineAcrossTags(t *testing.T) {
	// No artificial space is introduced mid-word by inline tags.
	got, err := Extract([]byte(`<p>re<em>mark</em>able</p>`))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "remarkable" {
		t.Errorf("Extract() = %q, want %q", got, "remarkable")
	}
}
