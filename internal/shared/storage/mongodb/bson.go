package mongodb

import "go.mongodb.org/mongo-driver/bson"

// bsonD builds an ordered document from alternating keys and values.
func bsonD(pairs ...any) bson.D {
	out := make(bson.D, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		out = append(out, bson.E{Key: key, Value: pairs[i+1]})
	}
	return out
}
