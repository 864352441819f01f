// Package serialization saves and restores views while preserving buffer
// sharing.
//
// Each view becomes one record:
//
//	[shape][stride][buffer][offset]
//
// The buffer part carries an identity tag. The first record that references
// a buffer writes its dtype, size and elements; later records write only the
// tag, so views that aliased one buffer before saving alias one buffer after
// loading. Records are written through a scalar codec (msgpack or JSON
// lines, see package codec).
//
// Archives group named records behind a fixed header:
//
//	Format Structure:
//	  [4 bytes: Magic "STRD"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE), low byte = codec]
//	  [4 bytes: Reserved]
//	  [8 bytes: Payload Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the payload]
//	  [8 bytes: Reserved]
//	  [Payload: JSON header document, then one record per entry]
//
// Example usage:
//
//	a := serialization.NewArchive()
//	_ = serialization.Add(a, "weights", w)
//	_ = serialization.Add(a, "bias", b)
//	if err := serialization.SaveFile("model.strd", a, serialization.DefaultWriteOptions()); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := serialization.OpenFile("model.strd", serialization.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w2, err := serialization.Get[float64](loaded, "weights")
package serialization
