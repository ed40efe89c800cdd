// Package supplychain provides transparent field-level post-quantum
// encryption and signing for the Agricultural-Supply-Chain application.
//
// The package wraps sensitive record fields in hybrid ML-KEM-768 +
// AES-256-CBC envelopes recoverable only by the holder of the matching
// private key, and layers detached ML-DSA-65 signatures over opaque
// tokens as a quantum-resistant second factor of authenticity on top of
// conventional bearer tokens.
//
// Basic usage:
//
//	provider, err := supplychain.New(supplychain.WithKeyDir("keys"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encrypt a single value
//	envelope, err := provider.Encrypt("Organic Wheat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	value, err := provider.Decrypt(envelope)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(value) // "Organic Wheat"
//
// Key pairs are generated on first use and persisted hex-encoded under
// the key directory; restarting the process reloads the same pairs.
//
// Persistence layers declare their encrypted fields once, at
// construction time, and call the resulting [RecordCrypter] around every
// read and write:
//
//	crypter, err := supplychain.NewRecordCrypter(provider,
//	    supplychain.Field[Product]{
//	        Name: "originFarm",
//	        Get:  func(p *Product) any { return p.OriginFarm },
//	        Set:  func(p *Product, v any) { p.OriginFarm, _ = v.(string) },
//	    },
//	)
//
//	snapshot, err := crypter.Open(&product, &product.Encrypted)  // after load
//	err = crypter.Seal(&product, &product.Encrypted, snapshot)   // before save
//
// Token signing is optional per deployment; see [WithSignatures]:
//
//	sig, err := provider.SignToken(sessionToken)
//	if provider.VerifyToken(sessionToken, sig) {
//	    // accept request
//	}
package supplychain
