package transaction

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"completed", StatusCompleted, false},
		{"failed", StatusFailed, false},
		{"PENDING", "", true},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseStatus(%q) accepted invalid status", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateTransactionParams_Validate_MultibyteDescription(t *testing.T) {
	// 3 characters, more than 3 bytes: length is counted in characters
	params := CreateTransactionParams{Amount: 1.0, Description: "äöü", UserID: 1}
	if err := params.Validate(); err != nil {
		t.Errorf("Validate() rejected 3-character multibyte description: %v", err)
	}
}
