package llm

import "testing"

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "reasoning block removed",
			in:   "<think>primero reviso el contexto</think>\nLa respuesta es main.",
			want: "La respuesta es main.",
		},
		{
			name: "no delimiter passes through",
			in:   "La respuesta es main.",
			want: "La respuesta es main.",
		},
		{
			name: "only first delimiter is honored",
			in:   "<think>a</think>texto </think> restante",
			want: "texto </think> restante",
		},
		{
			name: "whitespace trimmed",
			in:   "  \nrespuesta\n ",
			want: "respuesta",
		},
		{
			name: "everything inside reasoning yields empty",
			in:   "<think>solo pensamiento</think>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripReasoning(tt.in); got != tt.want {
				t.Errorf("StripReasoning(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
