// Package ses delivers the digest email through Amazon SES.
//
// The message is submitted as a raw multipart/alternative MIME message so
// both a plain-text and an HTML rendering of the digest reach the
// recipient. Credentials and region resolution follow the AWS SDK's usual
// sources (environment, shared config, instance role).
package ses
