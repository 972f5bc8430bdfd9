// Package hash provides the checksums used by encoded container snapshots and
// the FNV-1a hash used for plain-data hash map keys.
//
// # CRC32-Castagnoli (CRC32C)
//
// Snapshots written by package codec carry a CRC32C of their payload. CRC32C is
// hardware accelerated on x86 (SSE4.2) and ARM (CRC extension), and Go's
// hash/crc32 picks the accelerated path automatically.
//
//	checksum := hash.CRC32C(data)
//
// # FNV-1a
//
// FNV1a32 hashes byte images of plain-data keys without allocating.
package hash
