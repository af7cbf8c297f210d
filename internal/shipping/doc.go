// Package shipping is the client for the courier provider's token-based
// REST API: rate quotes, shipment booking, and waybill tracking.
//
// Bearer tokens are fetched with client credentials, cached until shortly
// before expiry, and treated as opaque. Only a short prefix of a token is
// ever written to logs or error messages.
package shipping
