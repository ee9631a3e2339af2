package mongoclient

import (
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

var (
	ErrNotStruct = fmt.Errorf("not a struct")
)

const FieldUpdatedAt = "updatedAt"

// MakeBsonM flattens a tagged struct into a bson.M. Zero fields are kept
// unless tagged omitempty, nil pointers are always dropped.
func MakeBsonM(v interface{}) (bson.M, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: %w", val.Kind(), ErrNotStruct)
	}

	res := bson.M{}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		tag, err := bsoncodec.DefaultStructTagParser(val.Type().Field(i))
		if err != nil {
			return nil, err
		}
		if tag.Skip || !field.CanInterface() {
			continue
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}
		if tag.OmitEmpty && field.IsZero() {
			continue
		}
		res[tag.Name] = field.Interface()
	}
	return res, nil
}

// MakeSetUpdate wraps the fields of v into a $set stamped with updatedAt
func MakeSetUpdate(v interface{}, now time.Time) (bson.M, error) {
	set, err := MakeBsonM(v)
	if err != nil {
		return nil, err
	}
	set[FieldUpdatedAt] = now.UTC()
	return bson.M{"$set": set}, nil
}
