package exrdeep

import "testing"

func TestSetCumulativeCountsAcceptsBothLengths(t *testing.T) {
	d1 := NewDeepSamples(2, 1)
	if err := d1.SetCumulativeCounts([]uint32{2, 1}); err != nil {
		t.Fatalf("pixel-count-length form: %v", err)
	}
	if d1.TotalSamples() != 3 {
		t.Errorf("TotalSamples = %d, want 3", d1.TotalSamples())
	}

	d2 := NewDeepSamples(2, 1)
	if err := d2.SetCumulativeCounts([]uint32{0, 2, 3}); err != nil {
		t.Fatalf("pixel-count+1-length form: %v", err)
	}
	if d2.TotalSamples() != 3 {
		t.Errorf("TotalSamples = %d, want 3", d2.TotalSamples())
	}
}

func TestSetCumulativeCountsRejectsNonZeroStart(t *testing.T) {
	d := NewDeepSamples(1, 1)
	if err := d.SetCumulativeCounts([]uint32{1, 2}); err != ErrMalformed {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestSetCumulativeCountsRejectsNonMonotonic(t *testing.T) {
	d := NewDeepSamples(2, 1)
	if err := d.SetCumulativeCounts([]uint32{0, 3, 1}); err != ErrMalformed {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestSetCumulativeCountsRejectsWrongLength(t *testing.T) {
	d := NewDeepSamples(2, 1)
	if err := d.SetCumulativeCounts([]uint32{0, 1, 2, 3}); err != ErrMalformed {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestAllocateChannelsRequiresCountsFirst(t *testing.T) {
	d := NewDeepSamples(1, 1)
	channels := NewChannelList(NewChannelDescription("Z", SampleTypeF32, false))
	if err := d.AllocateChannels(channels); err != ErrInternalConsistency {
		t.Errorf("got %v, want ErrInternalConsistency", err)
	}
}

func TestAllocateChannelsIdempotentForSameShape(t *testing.T) {
	d := NewDeepSamples(1, 1)
	channels := NewChannelList(NewChannelDescription("Z", SampleTypeF32, false))
	if err := d.SetCumulativeCounts([]uint32{2}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := d.AllocateChannels(channels); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	d.channels[0].F32[0] = 42
	if err := d.AllocateChannels(channels); err != nil {
		t.Fatalf("second AllocateChannels: %v", err)
	}
	if d.channels[0].F32[0] != 42 {
		t.Errorf("idempotent AllocateChannels re-zeroed existing data")
	}
}

func TestAllocateChannelsReallocatesOnShapeChange(t *testing.T) {
	d := NewDeepSamples(1, 1)
	if err := d.SetCumulativeCounts([]uint32{1}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := d.AllocateChannels(NewChannelList(NewChannelDescription("Z", SampleTypeF32, false))); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	if err := d.AllocateChannels(NewChannelList(NewChannelDescription("Z", SampleTypeU32, false))); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	if d.channels[0].Type != SampleTypeU32 {
		t.Errorf("channel type = %v, want SampleTypeU32", d.channels[0].Type)
	}
}

func TestSampleRange(t *testing.T) {
	d := NewDeepSamples(3, 1)
	if err := d.SetCumulativeCounts([]uint32{0, 2, 1}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	start, end := d.SampleRange(1)
	if start != 0 || end != 2 {
		t.Errorf("pixel 1 range = [%d, %d), want [0, 2)", start, end)
	}
	start, end = d.SampleRange(2)
	if start != 2 || end != 3 {
		t.Errorf("pixel 2 range = [%d, %d), want [2, 3)", start, end)
	}
}

func TestValidateDetectsChannelLengthMismatch(t *testing.T) {
	d := NewDeepSamples(1, 1)
	if err := d.SetCumulativeCounts([]uint32{3}); err != nil {
		t.Fatalf("SetCumulativeCounts: %v", err)
	}
	if err := d.AllocateChannels(NewChannelList(NewChannelDescription("Z", SampleTypeF32, false))); err != nil {
		t.Fatalf("AllocateChannels: %v", err)
	}
	d.channels[0].F32 = d.channels[0].F32[:2]
	if err := d.Validate(); err != ErrInternalConsistency {
		t.Errorf("got %v, want ErrInternalConsistency", err)
	}
}

func TestSampleTypeBytesPerSample(t *testing.T) {
	cases := map[SampleType]int{
		SampleTypeF16: 2,
		SampleTypeF32: 4,
		SampleTypeU32: 4,
	}
	for st, want := range cases {
		if got := st.BytesPerSample(); got != want {
			t.Errorf("%v.BytesPerSample() = %d, want %d", st, got, want)
		}
	}
}

func TestChannelListBytesPerSample(t *testing.T) {
	cl := NewChannelList(
		NewChannelDescription("R", SampleTypeF16, true),
		NewChannelDescription("A", SampleTypeU32, false),
	)
	if got := cl.BytesPerSample(); got != 6 {
		t.Errorf("BytesPerSample = %d, want 6", got)
	}
}
