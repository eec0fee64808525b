// Package client is the host-facing façade of brushwork. One Client serves
// every configured provider: each Generate call classifies the profile into
// its protocol family, validates the inputs, resolves pixel dimensions,
// dispatches to the family adapter, and returns a single normalized image
// result or a typed error.
//
//	c := client.New()
//	res, err := c.Generate(ctx, profile, req)
package client
