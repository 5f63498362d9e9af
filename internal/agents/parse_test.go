package agents

import "testing"

func TestExtractObject(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name    string
		raw     string
		want    payload
		wantErr bool
	}{
		{
			name: "bare object",
			raw:  `{"name": "acme", "count": 3}`,
			want: payload{Name: "acme", Count: 3},
		},
		{
			name: "fenced json block",
			raw:  "Here you go:\n```json\n{\"name\": \"acme\", \"count\": 3}\n```\nHope that helps!",
			want: payload{Name: "acme", Count: 3},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"name\": \"acme\", \"count\": 1}\n```",
			want: payload{Name: "acme", Count: 1},
		},
		{
			name: "surrounding prose",
			raw:  `Sure! The result is {"name": "acme", "count": 2} as requested.`,
			want: payload{Name: "acme", Count: 2},
		},
		{
			name: "braces inside string values",
			raw:  `{"name": "uses {braces} and \"quotes\"", "count": 5}`,
			want: payload{Name: `uses {braces} and "quotes"`, Count: 5},
		},
		{
			name:    "no json at all",
			raw:     "I could not produce a response.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			raw:     `{"name": "acme", "count": 3`,
			wantErr: true,
		},
		{
			name:    "invalid json inside braces",
			raw:     `{name: acme}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := ExtractObject(tt.raw, &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	raw := "```json\n[{\"v\": 1}, {\"v\": 2}]\n```"
	var got []struct {
		V int `json:"v"`
	}
	if err := ExtractArray(raw, &got); err != nil {
		t.Fatalf("ExtractArray: %v", err)
	}
	if len(got) != 2 || got[1].V != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestExtractObjectPrefersFirstObject(t *testing.T) {
	raw := `{"name": "first", "count": 1} {"name": "second", "count": 2}`
	var got struct {
		Name string `json:"name"`
	}
	if err := ExtractObject(raw, &got); err != nil {
		t.Fatalf("ExtractObject: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("got %q, want first", got.Name)
	}
}
