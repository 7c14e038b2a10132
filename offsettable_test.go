package exrdeep

import (
	"reflect"
	"testing"
)

func TestDiskTableToPixelOffsets(t *testing.T) {
	tests := []struct {
		name    string
		table   []int32
		width   int
		height  int
		want    []uint32
		wantErr bool
	}{
		{
			name:   "uniform three samples per pixel, two lines",
			width:  3,
			height: 2,
			table:  []int32{3, 6, 9, 3, 6, 9},
			want:   []uint32{0, 3, 6, 9, 12, 15, 18},
		},
		{
			name:   "mixed per-pixel counts reset each line",
			width:  2,
			height: 2,
			table:  []int32{0, 2, 1, 1},
			want:   []uint32{0, 0, 2, 3, 4},
		},
		{
			name:   "all zero samples",
			width:  2,
			height: 1,
			table:  []int32{0, 0},
			want:   []uint32{0, 0, 0},
		},
		{
			name:    "wrong length",
			width:   2,
			height:  2,
			table:   []int32{0, 1, 2},
			wantErr: true,
		},
		{
			name:    "negative entry",
			width:   1,
			height:  1,
			table:   []int32{-1},
			wantErr: true,
		},
		{
			name:    "non-monotonic within a line",
			width:   2,
			height:  1,
			table:   []int32{5, 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskTableToPixelOffsets(tt.table, tt.width, tt.height)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelOffsetsToDiskTable(t *testing.T) {
	offsets := []uint32{0, 0, 2, 3, 4}
	table, err := PixelOffsetsToDiskTable(offsets, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int32{0, 2, 1, 1}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("got %v, want %v", table, want)
	}
}

func TestPixelOffsetsToDiskTableOverflow(t *testing.T) {
	offsets := []uint32{0, uint32(maxTotalSamples) + 1}
	_, err := PixelOffsetsToDiskTable(offsets, 1, 1)
	if err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestPixelOffsetsToDiskTableWrongLength(t *testing.T) {
	_, err := PixelOffsetsToDiskTable([]uint32{0, 1, 2}, 2, 2)
	if err != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

// TestOffsetTableBijection checks that DiskTableToPixelOffsets and
// PixelOffsetsToDiskTable are inverses for any structurally valid table.
func TestOffsetTableBijection(t *testing.T) {
	cases := []struct {
		width, height int
		table         []int32
	}{
		{3, 2, []int32{3, 6, 9, 3, 6, 9}},
		{2, 2, []int32{0, 2, 1, 1}},
		{4, 1, []int32{0, 0, 0, 0}},
		{1, 1, []int32{5}},
	}

	for _, c := range cases {
		offsets, err := DiskTableToPixelOffsets(c.table, c.width, c.height)
		if err != nil {
			t.Fatalf("DiskTableToPixelOffsets: %v", err)
		}
		roundTripped, err := PixelOffsetsToDiskTable(offsets, c.width, c.height)
		if err != nil {
			t.Fatalf("PixelOffsetsToDiskTable: %v", err)
		}
		if !reflect.DeepEqual(roundTripped, c.table) {
			t.Errorf("round trip mismatch: got %v, want %v", roundTripped, c.table)
		}
	}
}

func TestValidateSampleTable(t *testing.T) {
	if err := ValidateSampleTable([]int32{1, 2, 3}, 3, 1); err != nil {
		t.Errorf("expected valid table to pass, got %v", err)
	}
	if err := ValidateSampleTable([]int32{2, 1}, 2, 1); err != ErrMalformed {
		t.Errorf("expected ErrMalformed for non-monotonic line, got %v", err)
	}
	if err := ValidateSampleTable([]int32{1}, 2, 1); err != ErrMalformed {
		t.Errorf("expected ErrMalformed for wrong length, got %v", err)
	}
}
