// Package summarize turns a batch of fetched mail messages into one digest
// text using a generative model.
//
// Messages are grouped into fixed-size chunks to stay under the model's
// input limits; each chunk is summarized with one request and the partial
// summaries are joined in the original order. A failed chunk contributes a
// placeholder section instead of aborting the run, so a single bad request
// cannot lose the rest of the digest.
package summarize
