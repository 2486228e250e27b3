package vtex

import (
	"bytes"
	"testing"
)

func buildTestVTFF(t *testing.T) []byte {
	t.Helper()
	h := vtffHeader{
		Magic:           vtffMagic,
		Version:         vtffVersion,
		PixelFormat:     pixelFormatRgbaU8,
		NumMipMapLevels: 2,
		PageContentSize: 120,
		PageSize:        128,
		BorderSize:      4,
	}
	levels := []vtffMipLevelInfo{
		{WidthInPixels: 256, HeightInPixels: 256, NumPagesX: 2, NumPagesY: 2},
		{WidthInPixels: 128, HeightInPixels: 128, NumPagesX: 1, NumPagesY: 1},
	}
	pageBytes := uint32(128 * 128 * 4)
	offset := uint64(vtffHeaderSize)
	for _, lvl := range levels {
		offset += mipLevelInfoSize + uint64(int(lvl.NumPagesX)*int(lvl.NumPagesY))*pageInfoSize
	}
	var pageInfos [][]vtffPageInfo
	for _, lvl := range levels {
		n := int(lvl.NumPagesX) * int(lvl.NumPagesY)
		pis := make([]vtffPageInfo, n)
		for i := range pis {
			pis[i] = vtffPageInfo{FileOffset: offset, SizeInBytes: pageBytes}
			offset += uint64(pageBytes)
		}
		pageInfos = append(pageInfos, pis)
	}

	var buf bytes.Buffer
	if err := writeVTFFHeader(&buf, h, levels, pageInfos); err != nil {
		t.Fatalf("writeVTFFHeader: %v", err)
	}
	totalPages := 0
	for _, lvl := range levels {
		totalPages += int(lvl.NumPagesX) * int(lvl.NumPagesY)
	}
	buf.Write(make([]byte, totalPages*int(pageBytes)))
	return buf.Bytes()
}

func TestVTFFHeaderRoundTrip(t *testing.T) {
	data := buildTestVTFF(t)

	gotHeader, gotLevels, gotPageInfos, err := readVTFFHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("readVTFFHeader: %v", err)
	}
	if gotHeader.Magic != vtffMagic || gotHeader.Version != vtffVersion {
		t.Fatalf("header mismatch: %+v", gotHeader)
	}
	if len(gotLevels) != 2 {
		t.Fatalf("levels = %d, want 2", len(gotLevels))
	}
	if gotLevels[0].NumPagesX != 2 || gotLevels[0].NumPagesY != 2 {
		t.Errorf("level 0 dims = %+v", gotLevels[0])
	}
	if gotLevels[1].NumPagesX != 1 || gotLevels[1].NumPagesY != 1 {
		t.Errorf("level 1 dims = %+v", gotLevels[1])
	}
	if len(gotPageInfos[0]) != 4 || len(gotPageInfos[1]) != 1 {
		t.Fatalf("page info counts = %d, %d", len(gotPageInfos[0]), len(gotPageInfos[1]))
	}
	if err := validatePageInfoSizes(gotPageInfos, 128); err != nil {
		t.Errorf("validatePageInfoSizes: %v", err)
	}

	// Re-encode the parsed directory and confirm it reproduces the same
	// bytes (offsets, sizes, dimensions) the original declared.
	var buf bytes.Buffer
	if err := writeVTFFHeader(&buf, gotHeader, gotLevels, gotPageInfos); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data[:buf.Len()]) {
		t.Error("round-tripped directory does not match original bytes")
	}
}

func TestVTFFHeaderRejectsBadMagic(t *testing.T) {
	data := buildTestVTFF(t)
	data[0] ^= 0xFF
	if _, _, _, err := readVTFFHeader(bytes.NewReader(data)); err == nil {
		t.Error("expected error for corrupted magic")
	}
}

func TestVTFFHeaderRejectsNonPowerOfTwoPageCount(t *testing.T) {
	h := vtffHeader{
		Magic:           vtffMagic,
		Version:         vtffVersion,
		PixelFormat:     pixelFormatRgbaU8,
		NumMipMapLevels: 1,
		PageContentSize: 120,
		PageSize:        128,
		BorderSize:      4,
	}
	levels := []vtffMipLevelInfo{{WidthInPixels: 384, HeightInPixels: 128, NumPagesX: 3, NumPagesY: 1}}
	pageInfos := [][]vtffPageInfo{{{}, {}, {}}}

	var buf bytes.Buffer
	if err := writeVTFFHeader(&buf, h, levels, pageInfos); err != nil {
		t.Fatalf("writeVTFFHeader: %v", err)
	}
	if _, _, _, err := readVTFFHeader(bytes.NewReader(buf.Bytes())); err == nil {
		t.Error("expected error for non-power-of-two page count")
	}
}
