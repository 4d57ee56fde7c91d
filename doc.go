// Package nvstore provides fixed-capacity containers that live directly in a
// byte-addressable non-volatile region (an EEPROM image, a memory-mapped file)
// and therefore survive power loss and restarts.
//
// The library is organised into several files for clarity:
//
//	options.go     – options struct & defaults
//	region.go      – Region interface & RAM-backed region
//	file_region.go – file-backed region (mmap or buffered)
//	flush_close.go – flush & close helpers for FileRegion
//	codec.go       – fixed-size element codecs
//	header.go      – storage header layout & signature check
//	queue.go       – FIFO ring buffer (Queue)
//	vector.go      – append/pop array (Vector)
//	state.go       – header snapshots
//	layout.go      – partitioning a region between containers
//	layout_pin.go  – layout sidecar verification
//
// A container is a thin view: it keeps the region, its base address and its
// capacity, nothing else. Every mutation writes straight into the region, so
// there is no commit step at the container level. Header validation is a
// single signature word; a header that keeps a valid signature but holds
// inconsistent indices is not detected.
package nvstore
