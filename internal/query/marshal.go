package query

import "encoding/json"

// mustMarshal JSON-encodes v for embedding in a CBOR wire payload field
// (payments and receipts keep their own JSON shape across the wire,
// independent of the outer CBOR envelope).
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}
