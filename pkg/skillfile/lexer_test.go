// SPDX-License-Identifier: MPL-2.0

package skillfile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:  "trailing newline adds no token",
			input: "public:\n",
			expected: []Token{
				{Kind: SectionHeader, Raw: "public:", Text: "public:", Pos: Pos{1, 1}},
			},
		},
		{
			name:  "crlf line endings",
			input: "public:\r\n  steps:\r\n",
			expected: []Token{
				{Kind: SectionHeader, Raw: "public:", Text: "public:", Pos: Pos{1, 1}},
				{Kind: StepsMarker, Raw: "  steps:", Text: "steps:", Pos: Pos{2, 3}},
			},
		},
		{
			name:  "lone carriage returns",
			input: "public:\rprivate:\r",
			expected: []Token{
				{Kind: SectionHeader, Raw: "public:", Text: "public:", Pos: Pos{1, 1}},
				{Kind: SectionHeader, Raw: "private:", Text: "private:", Pos: Pos{2, 1}},
			},
		},
		{
			name:  "unicode and control line boundaries",
			input: "public:\u2028private:\fnotes\v\vtests:\u0085",
			expected: []Token{
				{Kind: SectionHeader, Raw: "public:", Text: "public:", Pos: Pos{1, 1}},
				{Kind: SectionHeader, Raw: "private:", Text: "private:", Pos: Pos{2, 1}},
				{Kind: Text, Raw: "notes", Text: "notes", Pos: Pos{3, 1}},
				{Kind: Blank, Raw: "", Text: "", Pos: Pos{4, 1}},
				{Kind: SectionHeader, Raw: "tests:", Text: "tests:", Pos: Pos{5, 1}},
			},
		},
		{
			name:  "blank lines before trailing newline are kept",
			input: "public:\n\n",
			expected: []Token{
				{Kind: SectionHeader, Raw: "public:", Text: "public:", Pos: Pos{1, 1}},
				{Kind: Blank, Raw: "", Text: "", Pos: Pos{2, 1}},
			},
		},
		{
			name:  "every kind",
			input: "\n  private:\n///intent: x\npub skill A\nsteps:\n\tdo console.println(\"a\")\nreturn\nwhatever",
			expected: []Token{
				{Kind: Blank, Raw: "", Text: "", Pos: Pos{1, 1}},
				{Kind: SectionHeader, Raw: "  private:", Text: "private:", Pos: Pos{2, 3}},
				{Kind: DocHeader, Raw: "///intent: x", Text: "///intent: x", Pos: Pos{3, 1}},
				{Kind: SkillDecl, Raw: "pub skill A", Text: "pub skill A", Pos: Pos{4, 1}},
				{Kind: StepsMarker, Raw: "steps:", Text: "steps:", Pos: Pos{5, 1}},
				{Kind: PrintCall, Raw: "\tdo console.println(\"a\")", Text: "do console.println(\"a\")", Pos: Pos{6, 2}},
				{Kind: ReturnStmt, Raw: "return", Text: "return", Pos: Pos{7, 1}},
				{Kind: Text, Raw: "whatever", Text: "whatever", Pos: Pos{8, 1}},
			},
		},
		{
			name:  "header needs exact text",
			input: "public :\npublic: x\ntests:",
			expected: []Token{
				{Kind: Text, Raw: "public :", Text: "public :", Pos: Pos{1, 1}},
				{Kind: Text, Raw: "public: x", Text: "public: x", Pos: Pos{2, 1}},
				{Kind: SectionHeader, Raw: "tests:", Text: "tests:", Pos: Pos{3, 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Lex(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Lex() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenDocKeyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{line: "///intent: greet", wantKey: "intent", wantValue: "greet", wantOK: true},
		{line: "///  ensures :  a: b", wantKey: "ensures", wantValue: "a: b", wantOK: true},
		{line: "/// just prose", wantOK: false},
		{line: "///custom:", wantKey: "custom", wantValue: "", wantOK: true},
	}

	for _, tt := range tests {
		toks := Lex(tt.line)
		key, value, ok := toks[0].DocKeyValue()
		if ok != tt.wantOK || key != tt.wantKey || value != tt.wantValue {
			t.Errorf("DocKeyValue(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, key, value, ok, tt.wantKey, tt.wantValue, tt.wantOK)
		}
	}
}

func TestTokenKindString(t *testing.T) {
	t.Parallel()

	if got := PrintCall.String(); got != "console.println" {
		t.Errorf("PrintCall.String() = %q", got)
	}
	if got := TokenKind(99).String(); got != "TokenKind(99)" {
		t.Errorf("TokenKind(99).String() = %q", got)
	}
}
