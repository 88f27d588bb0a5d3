// Package model holds the data types shared by the feed session, the decoders
// and the trip fetcher.
//
// Optional fields are pointers so that "absent in the payload" and "zero value"
// stay distinguishable when records are re-encoded.
package model
