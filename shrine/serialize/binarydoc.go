// Package serialize implements the shrine's pluggable Holder<->bytes
// encodings: BinaryDoc (BSON, the on-disk payload) and Text (line-oriented,
// used only for human-readable dumps and env-file imports).
package serialize

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// bsonSecret mirrors shrine.Secret for BSON round-tripping: a blob, a
// mode tag, and a creation timestamp in epoch seconds (spec.md §4.D).
type bsonSecret struct {
	Bytes     []byte `bson:"bytes"`
	Mode      int    `bson:"mode"`
	CreatedAt int64  `bson:"created_at"`
}

// bsonHolder mirrors the two-namespace shrine.Holder.
type bsonHolder struct {
	Public  map[string]bsonSecret `bson:"public"`
	Private map[string]bsonSecret `bson:"private"`
}

// SecretView is the minimal shape BinaryDoc needs from a shrine.Secret,
// kept here to avoid an import cycle between shrine and serialize.
type SecretView struct {
	Bytes     []byte
	Mode      int
	CreatedAt time.Time
}

// HolderView is the minimal shape BinaryDoc needs from a shrine.Holder.
type HolderView struct {
	Public  map[string]SecretView
	Private map[string]SecretView
}

// EncodeBinaryDoc serializes a HolderView to its BSON document encoding.
func EncodeBinaryDoc(h HolderView) ([]byte, error) {
	doc := bsonHolder{
		Public:  make(map[string]bsonSecret, len(h.Public)),
		Private: make(map[string]bsonSecret, len(h.Private)),
	}
	for k, s := range h.Public {
		doc.Public[k] = bsonSecret{Bytes: s.Bytes, Mode: s.Mode, CreatedAt: s.CreatedAt.Unix()}
	}
	for k, s := range h.Private {
		doc.Private[k] = bsonSecret{Bytes: s.Bytes, Mode: s.Mode, CreatedAt: s.CreatedAt.Unix()}
	}
	return bson.Marshal(doc)
}

// DecodeBinaryDoc parses bytes produced by EncodeBinaryDoc back into a
// HolderView. Round-trip invariant: for any Holder H,
// DecodeBinaryDoc(EncodeBinaryDoc(H)) = H modulo key iteration order
// (spec.md §4.D), with creation times truncated to whole seconds.
func DecodeBinaryDoc(data []byte) (HolderView, error) {
	var doc bsonHolder
	if err := bson.Unmarshal(data, &doc); err != nil {
		return HolderView{}, err
	}

	h := HolderView{
		Public:  make(map[string]SecretView, len(doc.Public)),
		Private: make(map[string]SecretView, len(doc.Private)),
	}
	for k, s := range doc.Public {
		h.Public[k] = SecretView{Bytes: s.Bytes, Mode: s.Mode, CreatedAt: time.Unix(s.CreatedAt, 0)}
	}
	for k, s := range doc.Private {
		h.Private[k] = SecretView{Bytes: s.Bytes, Mode: s.Mode, CreatedAt: time.Unix(s.CreatedAt, 0)}
	}
	return h, nil
}
