// Package fakes provides test doubles for dusk-warden collaborator interfaces.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	kc := fakes.NewFakeKeychainClient()
//	kc.SetSecret(credentials.KeychainService, credentials.KeychainAccount, "token")
//	resolver := credentials.NewResolverWithClient(logger, kc, fakes.NoEnv)
package fakes
