// Package envelope turns plaintext vault payloads into self-describing
// encrypted sync records and back.
//
// A record carries the format version, the AEAD nonce and the SHA-256 of the
// plaintext. Opening a record checks, in this order:
//
//  1. the format version is supported (no decryption is attempted otherwise);
//  2. the ciphertext authenticates under the key;
//  3. the recovered plaintext hashes to the recorded checksum.
//
// The package also owns the JSON wire shape and the remote object naming
// scheme <datatype>_<timestamp>_<id>.vsync.
package envelope
