package errors

import "testing"

func TestValidateIdentifierPart(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"prefix", "v_", false},
		{"at sign", "@", false},
		{"space", "v ", true},
		{"tab", "v\t", true},
		{"newline", "v\n", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifierPart("prefix", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifierPart(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "graph.svg", false},
		{"nested", "out/graph", false},
		{"absolute", "/tmp/graph", false},
		{"dots in name", "graph..v2", false},
		{"empty", "", true},
		{"traversal", "../graph", true},
		{"nested traversal", "out/../../graph", true},
		{"null byte", "graph\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	supported := []string{"dot", "svg"}
	if err := ValidateFormat("svg", supported); err != nil {
		t.Errorf("ValidateFormat(svg) = %v", err)
	}
	err := ValidateFormat("pdf", supported)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v, want INVALID_FORMAT", err)
	}
}
