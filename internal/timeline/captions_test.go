package timeline

import "testing"

func TestValidateCaptions(t *testing.T) {
	tests := []struct {
		name     string
		captions []Caption
		wantErr  bool
	}{
		{
			name: "valid nested words",
			captions: []Caption{
				{Text: "a b", StartMs: 0, EndMs: 1000, Words: []WordTiming{
					{Word: "a", StartMs: 0, EndMs: 400},
					{Word: "b", StartMs: 400, EndMs: 1000},
				}},
				{Text: "c", StartMs: 1000, EndMs: 1500},
			},
		},
		{
			name:     "negative start",
			captions: []Caption{{Text: "a", StartMs: -1, EndMs: 100}},
			wantErr:  true,
		},
		{
			name:     "end before start",
			captions: []Caption{{Text: "a", StartMs: 200, EndMs: 100}},
			wantErr:  true,
		},
		{
			name: "blocks out of order",
			captions: []Caption{
				{Text: "a", StartMs: 500, EndMs: 1000},
				{Text: "b", StartMs: 200, EndMs: 400},
			},
			wantErr: true,
		},
		{
			name: "word outside block",
			captions: []Caption{
				{Text: "a", StartMs: 0, EndMs: 1000, Words: []WordTiming{
					{Word: "a", StartMs: 0, EndMs: 1200},
				}},
			},
			wantErr: true,
		},
		{
			name: "words overlap",
			captions: []Caption{
				{Text: "a b", StartMs: 0, EndMs: 1000, Words: []WordTiming{
					{Word: "a", StartMs: 0, EndMs: 600},
					{Word: "b", StartMs: 500, EndMs: 1000},
				}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCaptions(tt.captions)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCaptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShiftCaptions_DropsBlocksBeforeTrim(t *testing.T) {
	captions := []Caption{
		{Text: "gone", StartMs: 0, EndMs: 300},
		{Text: "kept", StartMs: 500, EndMs: 900, Words: []WordTiming{
			{Word: "kept", StartMs: 500, EndMs: 900},
		}},
	}

	shifted := shiftCaptions(captions, -400)
	if len(shifted) != 1 {
		t.Fatalf("shiftCaptions() kept %d blocks, want 1", len(shifted))
	}
	got := shifted[0]
	if got.StartMs != 100 || got.EndMs != 500 {
		t.Errorf("shifted block = [%d, %d), want [100, 500)", got.StartMs, got.EndMs)
	}
	if got.Words[0].StartMs != 100 || got.Words[0].EndMs != 500 {
		t.Errorf("shifted word = [%d, %d), want [100, 500)", got.Words[0].StartMs, got.Words[0].EndMs)
	}
}

func TestShiftCaptions_ZeroDeltaReturnsInput(t *testing.T) {
	captions := []Caption{{Text: "a", StartMs: 0, EndMs: 100}}
	if got := shiftCaptions(captions, 0); len(got) != 1 {
		t.Errorf("shiftCaptions(0) = %v, want unchanged input", got)
	}
}
