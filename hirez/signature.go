package hirez

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// timestampLayout is the wire format of the UTC timestamp that is both
// embedded in request URLs and fed into the request signature.
const timestampLayout = "20060102150405"

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// signature computes the per-request digest the API expects as a path
// segment: hex(md5(devID + method + authKey + timestamp)), with the method
// name lowercase and without the response-format suffix.
func signature(devID, method, authKey, ts string) string {
	sum := md5.Sum([]byte(devID + method + authKey + ts))
	return hex.EncodeToString(sum[:])
}
