package decode

import (
	"image/color"
	"io"
	"testing"
)

func TestCloneIsIndependent(t *testing.T) {
	orig := NewMemFrame(color.RGBA{R: 200, A: 255})
	defer orig.Close()

	dup := Clone(orig)
	defer dup.Close()

	// Mutating the clone must not touch the original.
	dup.(*MemFrame).SetRGBA(0, 0, color.RGBA{B: 9, A: 255})

	r, _, _, _ := orig.At(0, 0).RGBA()
	if uint8(r>>8) != 200 {
		t.Errorf("original mutated through clone: r = %d, want 200", uint8(r>>8))
	}
}

func TestFakeCaptureLifecycle(t *testing.T) {
	fake := NewFake()
	fake.Videos["clip"] = []color.RGBA{{R: 1}, {R: 2}}

	cap, err := fake.OpenFile("clip")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if n := fake.OpenCaptures(); n != 1 {
		t.Fatalf("OpenCaptures() = %d, want 1", n)
	}

	for i := 0; i < 2; i++ {
		f, err := cap.ReadNext()
		if err != nil {
			t.Fatalf("ReadNext() #%d error = %v", i, err)
		}
		f.Close()
	}
	if _, err := cap.ReadNext(); err != io.EOF {
		t.Errorf("ReadNext() at end error = %v, want io.EOF", err)
	}

	if err := cap.Rewind(); err != nil {
		t.Fatalf("Rewind() error = %v", err)
	}
	if _, err := cap.ReadNext(); err != nil {
		t.Errorf("ReadNext() after Rewind error = %v", err)
	}

	if err := cap.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := cap.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	if n := fake.OpenCaptures(); n != 0 {
		t.Errorf("OpenCaptures() after release = %d, want 0", n)
	}

	// Devices are not seekable.
	fake.Devices[0] = []color.RGBA{{G: 1}}
	dev, err := fake.OpenDevice(0)
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	defer dev.Release()
	if err := dev.Rewind(); err == nil {
		t.Error("Rewind() on a device should fail")
	}
}
