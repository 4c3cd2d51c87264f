// Package google handles OAuth2 credentials for the Gmail API.
//
// Scheduled runs load a base64-encoded authorized-user token blob from the
// environment; the auth command produces that blob through the one-time
// consent flow implemented here.
package google
