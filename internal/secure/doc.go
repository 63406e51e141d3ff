// Package secure keeps the access token out of ordinary heap memory.
//
// The token is sealed in a memguard enclave (XSalsa20Poly1305, mlocked where
// the platform allows) for the lifetime of a run. It is decrypted only inside
// Token.Use, and the plaintext buffer is wiped when the callback returns.
//
//	tok, err := secure.NewToken(raw, "env")
//	if err != nil {
//	    return err
//	}
//	defer tok.Destroy()
//
//	err = tok.Use(func(value string) error {
//	    return runWith(value)
//	})
//
// A Go string handed to the callback is an ordinary copy. Callers must not
// retain it beyond the callback.
package secure
