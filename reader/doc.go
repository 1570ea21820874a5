// Package reader drives a PC/SC connection to a tapped NTAG 424 DNA tag far
// enough to pull its SDM NDEF message off the wire: select the NDEF
// application, locate and read the NDEF file via plain ISO READ BINARY, and
// parse the resulting URL into its plain-SUN uid/ctr/mac parameters. The
// encrypted picc_data/sdmmac URL layout is not parsed by this package.
//
// SUN message verification, key derivation, and session-key mixing are not
// this package's job — they live in sun and diversify. This package stops at
// "bytes came off the tag and here is the URL they spelled out." A tag's SDM
// file is provisioned read-free, so none of this requires a DESFire
// authenticated session; GetVersion is the one exception worth noting, since
// it runs unauthenticated too and is useful as a reader/tag connectivity
// check independent of SDM.
package reader
