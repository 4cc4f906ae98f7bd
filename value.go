package ovsdb

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Uuid is an OVSDB UUID, carried on the wire as ["uuid", "<hex string>"].
type Uuid struct {
	GoUUID string
}

// NewUuid wraps a hex-hyphen UUID string.
func NewUuid(s string) Uuid {
	return Uuid{GoUUID: s}
}

// NewUuidV4 generates a fresh random UUID, as used for request ids.
func NewUuidV4() Uuid {
	return Uuid{GoUUID: uuid.New().String()}
}

// String implements fmt.Stringer.
func (u Uuid) String() string {
	return u.GoUUID
}

// MarshalJSON emits the tagged ["uuid", "<hex>"] wire form.
func (u Uuid) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{"uuid", u.GoUUID})
}

// UnmarshalJSON decodes the tagged ["uuid", "<hex>"] wire form.
func (u *Uuid) UnmarshalJSON(b []byte) error {
	var tagged [2]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "uuid"}
	}
	var tag string
	if err := json.Unmarshal(tagged[0], &tag); err != nil || tag != "uuid" {
		return &InvalidValueError{Got: string(b), Expected: "uuid"}
	}
	var hex string
	if err := json.Unmarshal(tagged[1], &hex); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "uuid"}
	}
	u.GoUUID = hex
	return nil
}

// Set is an ordered collection of values, carried on the wire as
// ["set", [v, v, ...]]. A single bare scalar also decodes as a
// one-element set.
type Set[T any] struct {
	GoSet []T
}

// NewSet wraps a native slice as a Set.
func NewSet[T any](values []T) Set[T] {
	return Set[T]{GoSet: values}
}

// MarshalJSON always emits the ["set", [...]] form.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	elems := s.GoSet
	if elems == nil {
		elems = []T{}
	}
	return json.Marshal([2]interface{}{"set", elems})
}

// UnmarshalJSON accepts either ["set", [...]] or a bare scalar standing
// in for a one-element set.
func (s *Set[T]) UnmarshalJSON(b []byte) error {
	var tagged [2]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err == nil {
		var tag string
		if err := json.Unmarshal(tagged[0], &tag); err == nil && tag == "set" {
			var elems []T
			if err := json.Unmarshal(tagged[1], &elems); err != nil {
				return &InvalidValueError{Got: string(b), Expected: "set"}
			}
			s.GoSet = elems
			return nil
		}
	}
	// Fall back: a bare scalar is a valid wire representation of a
	// one-element set.
	var single T
	if err := json.Unmarshal(b, &single); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "set or scalar"}
	}
	s.GoSet = []T{single}
	return nil
}

// UuidSet tolerates the bare ["uuid", hex] form where a set<uuid> is
// syntactically required, in addition to the ordinary ["set", [...]] form.
// Prefer this over Set[Uuid] for any column declared set<uuid>.
type UuidSet struct {
	GoSet []Uuid
}

// NewUuidSet wraps a native slice of Uuid as a UuidSet.
func NewUuidSet(values []Uuid) UuidSet {
	return UuidSet{GoSet: values}
}

// MarshalJSON always emits the ["set", [...]] form; writers never use
// the bare-uuid shorthand.
func (s UuidSet) MarshalJSON() ([]byte, error) {
	elems := s.GoSet
	if elems == nil {
		elems = []Uuid{}
	}
	return json.Marshal([2]interface{}{"set", elems})
}

// UnmarshalJSON dispatches on the leading tag: "uuid" yields a
// singleton set, "set" yields the array as given.
func (s *UuidSet) UnmarshalJSON(b []byte) error {
	var tagged [2]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "uuid or set"}
	}
	var tag string
	if err := json.Unmarshal(tagged[0], &tag); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "uuid or set"}
	}
	switch tag {
	case "uuid":
		var hex string
		if err := json.Unmarshal(tagged[1], &hex); err != nil {
			return &InvalidValueError{Got: string(b), Expected: "uuid"}
		}
		s.GoSet = []Uuid{NewUuid(hex)}
		return nil
	case "set":
		var elems []Uuid
		if err := json.Unmarshal(tagged[1], &elems); err != nil {
			return &InvalidValueError{Got: string(b), Expected: "set of uuid"}
		}
		s.GoSet = elems
		return nil
	default:
		return &InvalidValueError{Got: tag, Expected: "uuid or set"}
	}
}

// pair is a single key/value entry of a Map, used to preserve ordering
// across the wire's ["map", [[k,v], ...]] array-of-pairs shape.
type pair[K any, V any] struct {
	Key   K
	Value V
}

func (p pair[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Key, p.Value})
}

func (p *pair[K, V]) UnmarshalJSON(b []byte) error {
	var kv [2]json.RawMessage
	if err := json.Unmarshal(b, &kv); err != nil {
		return err
	}
	if err := json.Unmarshal(kv[0], &p.Key); err != nil {
		return err
	}
	return json.Unmarshal(kv[1], &p.Value)
}

// Map is OVSDB's map type: an ordered array of key/value pairs carried
// on the wire as ["map", [[k,v], ...]], not a JSON object. Callers that
// need deterministic output should build it with NewOrderedMap.
type Map[K comparable, V any] struct {
	GoMap    map[K]V
	keyOrder []K
	ordered  bool
}

// NewMap wraps a native map as a Map. Pair order on encode follows Go's
// (unspecified) map iteration order; use NewOrderedMap for determinism.
func NewMap[K comparable, V any](m map[K]V) Map[K, V] {
	return Map[K, V]{GoMap: m}
}

// NewOrderedMap wraps a native map together with an explicit key order
// for deterministic serialization.
func NewOrderedMap[K comparable, V any](m map[K]V, order []K) Map[K, V] {
	return Map[K, V]{GoMap: m, keyOrder: order, ordered: true}
}

// MarshalJSON emits ["map", [[k,v], ...]].
func (m Map[K, V]) MarshalJSON() ([]byte, error) {
	keys := m.keyOrder
	if !m.ordered {
		keys = make([]K, 0, len(m.GoMap))
		for k := range m.GoMap {
			keys = append(keys, k)
		}
	}
	pairs := make([]pair[K, V], 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, pair[K, V]{Key: k, Value: m.GoMap[k]})
	}
	return json.Marshal([2]interface{}{"map", pairs})
}

// UnmarshalJSON decodes ["map", [[k,v], ...]] preserving pair order.
func (m *Map[K, V]) UnmarshalJSON(b []byte) error {
	var tagged [2]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "map"}
	}
	var tag string
	if err := json.Unmarshal(tagged[0], &tag); err != nil || tag != "map" {
		return &InvalidValueError{Got: string(b), Expected: "map"}
	}
	var pairs []pair[K, V]
	if err := json.Unmarshal(tagged[1], &pairs); err != nil {
		return &InvalidValueError{Got: string(b), Expected: "map"}
	}
	m.GoMap = make(map[K]V, len(pairs))
	m.keyOrder = make([]K, 0, len(pairs))
	m.ordered = true
	for _, p := range pairs {
		if _, dup := m.GoMap[p.Key]; !dup {
			m.keyOrder = append(m.keyOrder, p.Key)
		}
		m.GoMap[p.Key] = p.Value
	}
	return nil
}

// emptySet reports whether b is the two-element array ["set", []].
func emptySet(b []byte) bool {
	var tagged [2]json.RawMessage
	if err := json.Unmarshal(b, &tagged); err != nil {
		return false
	}
	var tag string
	if err := json.Unmarshal(tagged[0], &tag); err != nil || tag != "set" {
		return false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(tagged[1], &elems); err != nil {
		return false
	}
	return len(elems) == 0
}

// Optional carries a value that may be absent. Absence is encoded as
// the empty set ["set", []]; presence is encoded as the bare inner
// value. Context (the caller's declared type), not shape alone,
// disambiguates an empty set from a genuinely empty Set[T] field.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns the absent value for T.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// MarshalJSON emits the empty set when absent, the inner encoding
// otherwise.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return json.Marshal([2]interface{}{"set", []interface{}{}})
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON detects the empty-set sentinel first; any other input
// is decoded through the inner type, surfacing that type's own decode
// error on malformed input.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if emptySet(b) {
		var zero T
		o.Value = zero
		o.Valid = false
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = v
	o.Valid = true
	return nil
}

// SetToSlice unwraps a Set to its underlying native slice. Generated
// native/wire conversions use this for every set-typed column.
func SetToSlice[T any](s Set[T]) []T {
	return s.GoSet
}

// SetFromSlice wraps a native slice as a Set.
func SetFromSlice[T any](v []T) Set[T] {
	return NewSet(v)
}

// UuidSetToSlice unwraps a UuidSet to its underlying native slice.
func UuidSetToSlice(s UuidSet) []Uuid {
	return s.GoSet
}

// UuidSetFromSlice wraps a native slice of Uuid as a UuidSet.
func UuidSetFromSlice(v []Uuid) UuidSet {
	return NewUuidSet(v)
}

// MapToNative unwraps a Map to its underlying native map.
func MapToNative[K comparable, V any](m Map[K, V]) map[K]V {
	return m.GoMap
}

// MapFromNative wraps a native map as a Map.
func MapFromNative[K comparable, V any](m map[K]V) Map[K, V] {
	return NewMap(m)
}

// OptionalToPointer converts an Optional to a nil-able pointer.
func OptionalToPointer[T any](o Optional[T]) *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// OptionalFromPointer converts a nil-able pointer to an Optional.
func OptionalFromPointer[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Enum is the type constraint of MarshalEnum and UnmarshalEnum: any
// named string type, such as the enum types the generator emits.
//
// A conforming enum type encodes its designated default variant as the
// empty set ["set", []] and every other variant as the raw wire string;
// it decodes a string to the matching named variant by exact match, and
// an empty set to the default variant.
type Enum interface {
	~string
}

// MarshalEnum implements the encode half of the Enum contract for a
// generated named-string enum type, given its default variant.
func MarshalEnum[E Enum](v E, defaultVariant E) ([]byte, error) {
	if v == defaultVariant {
		return json.Marshal([2]interface{}{"set", []interface{}{}})
	}
	return json.Marshal(string(v))
}

// UnmarshalEnum implements the decode half of the Enum contract: a
// string selects the matching variant (error if unrecognized), while an
// empty set selects the default.
func UnmarshalEnum[E Enum](b []byte, defaultVariant E, variants map[string]E) (E, error) {
	if emptySet(b) {
		return defaultVariant, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return defaultVariant, &InvalidValueError{Got: string(b), Expected: "enum string or empty set"}
	}
	v, ok := variants[s]
	if !ok {
		return defaultVariant, &InvalidValueError{Got: s, Expected: fmt.Sprintf("one of %v", enumKeys(variants))}
	}
	return v, nil
}

func enumKeys[E Enum](m map[string]E) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
