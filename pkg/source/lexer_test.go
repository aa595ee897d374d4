package source

import (
	"testing"
)

func collectTokens(t *testing.T, data string) []token {
	t.Helper()
	l := newContentLexer([]byte(data))
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestLexerNumbersAndOperators(t *testing.T) {
	tokens := collectTokens(t, "10 20.5 m -3 .5 l")
	if len(tokens) != 6 {
		t.Fatalf("got %d tokens, want 6", len(tokens))
	}
	wantNums := []float64{10, 20.5}
	for i, want := range wantNums {
		if tokens[i].kind != tokenOperand || tokens[i].value.(float64) != want {
			t.Errorf("token %d = %+v, want %g", i, tokens[i], want)
		}
	}
	if tokens[2].kind != tokenOperator || tokens[2].value.(string) != "m" {
		t.Errorf("token 2 = %+v, want operator m", tokens[2])
	}
	if tokens[3].value.(float64) != -3 || tokens[4].value.(float64) != 0.5 {
		t.Errorf("negative/fractional operands wrong: %+v %+v", tokens[3], tokens[4])
	}
}

func TestLexerStrings(t *testing.T) {
	tokens := collectTokens(t, `(hello \(world\)) Tj`)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if got := string(tokens[0].value.([]byte)); got != "hello (world)" {
		t.Errorf("string = %q, want %q", got, "hello (world)")
	}
}

func TestLexerHexString(t *testing.T) {
	tokens := collectTokens(t, "<48656C6C6F> Tj")
	if got := string(tokens[0].value.([]byte)); got != "Hello" {
		t.Errorf("hex string = %q, want Hello", got)
	}
}

func TestLexerOddHexDigitPadsZero(t *testing.T) {
	tokens := collectTokens(t, "<484> Tj")
	if got := tokens[0].value.([]byte); len(got) != 2 || got[0] != 0x48 || got[1] != 0x40 {
		t.Errorf("hex string = %v, want [0x48 0x40]", got)
	}
}

func TestLexerArray(t *testing.T) {
	tokens := collectTokens(t, "[(A) -120 (B)] TJ")
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	arr, ok := tokens[0].value.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("array token = %+v", tokens[0])
	}
	if string(arr[0].([]byte)) != "A" || arr[1].(float64) != -120 {
		t.Errorf("array contents = %+v", arr)
	}
}

func TestLexerNames(t *testing.T) {
	tokens := collectTokens(t, "/F1 12 Tf")
	if tokens[0].value.(string) != "F1" {
		t.Errorf("name = %+v, want F1", tokens[0])
	}
}

func TestLexerSkipsComments(t *testing.T) {
	tokens := collectTokens(t, "% a comment\n1 2 m")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[0].value.(float64) != 1 {
		t.Errorf("first token = %+v", tokens[0])
	}
}

func TestLexerOctalEscape(t *testing.T) {
	tokens := collectTokens(t, `(\101\102) Tj`)
	if got := string(tokens[0].value.([]byte)); got != "AB" {
		t.Errorf("octal-escaped string = %q, want AB", got)
	}
}
