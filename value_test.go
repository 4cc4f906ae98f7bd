package ovsdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUuidRoundTrip(t *testing.T) {
	u := NewUuid("84787a18-1ba0-4fd8-ac0a-3a9274da0329")
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `["uuid", "84787a18-1ba0-4fd8-ac0a-3a9274da0329"]`, string(data))

	var decoded Uuid
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, u, decoded)
}

func TestUuidUnmarshalRejectsWrongTag(t *testing.T) {
	var u Uuid
	err := json.Unmarshal([]byte(`["set", []]`), &u)
	require.Error(t, err)
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)
}

func TestSetRoundTrip(t *testing.T) {
	s := NewSet([]string{"a", "b"})
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["set", ["a", "b"]]`, string(data))

	var decoded Set[string]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded.GoSet)
}

func TestSetUnmarshalAcceptsBareScalar(t *testing.T) {
	var s Set[string]
	require.NoError(t, json.Unmarshal([]byte(`"solo"`), &s))
	assert.Equal(t, []string{"solo"}, s.GoSet)
}

func TestSetMarshalEmptyIsExplicitArray(t *testing.T) {
	var s Set[string]
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["set", []]`, string(data))
}

func TestUuidSetAcceptsBareUuidForm(t *testing.T) {
	var s UuidSet
	require.NoError(t, json.Unmarshal([]byte(`["uuid", "84787a18-1ba0-4fd8-ac0a-3a9274da0329"]`), &s))
	require.Len(t, s.GoSet, 1)
	assert.Equal(t, "84787a18-1ba0-4fd8-ac0a-3a9274da0329", s.GoSet[0].GoUUID)
}

func TestUuidSetRoundTripSetForm(t *testing.T) {
	s := NewUuidSet([]Uuid{NewUuid("a"), NewUuid("b")})
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded UuidSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.GoSet, decoded.GoSet)
}

func TestMapRoundTripPreservesOrder(t *testing.T) {
	m := NewOrderedMap(map[string]string{"b": "2", "a": "1"}, []string{"b", "a"})
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `["map", [["b", "2"], ["a", "1"]]]`, string(data))

	var decoded Map[string, string]
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"b", "a"}, decoded.keyOrder)
	assert.Equal(t, "2", decoded.GoMap["b"])
	assert.Equal(t, "1", decoded.GoMap["a"])
}

func TestOptionalRoundTrip(t *testing.T) {
	present := Some("x")
	data, err := json.Marshal(present)
	require.NoError(t, err)
	assert.JSONEq(t, `"x"`, string(data))

	absent := None[string]()
	data, err = json.Marshal(absent)
	require.NoError(t, err)
	assert.JSONEq(t, `["set", []]`, string(data))

	var decoded Optional[string]
	require.NoError(t, json.Unmarshal([]byte(`"y"`), &decoded))
	assert.True(t, decoded.Valid)
	assert.Equal(t, "y", decoded.Value)

	require.NoError(t, json.Unmarshal([]byte(`["set", []]`), &decoded))
	assert.False(t, decoded.Valid)
}

func TestConversionHelpersRoundTrip(t *testing.T) {
	s := NewSet([]int64{1, 2, 3})
	assert.Equal(t, []int64{1, 2, 3}, SetToSlice(s))
	assert.Equal(t, s.GoSet, SetFromSlice([]int64{1, 2, 3}).GoSet)

	us := NewUuidSet([]Uuid{NewUuid("a")})
	assert.Equal(t, []Uuid{NewUuid("a")}, UuidSetToSlice(us))
	assert.Equal(t, us.GoSet, UuidSetFromSlice([]Uuid{NewUuid("a")}).GoSet)

	m := NewMap(map[string]int64{"a": 1})
	assert.Equal(t, map[string]int64{"a": 1}, MapToNative(m))
	assert.Equal(t, m.GoMap, MapFromNative(map[string]int64{"a": 1}).GoMap)

	present := Some(7)
	ptr := OptionalToPointer(present)
	require.NotNil(t, ptr)
	assert.Equal(t, 7, *ptr)
	assert.Nil(t, OptionalToPointer(None[int]()))

	assert.True(t, OptionalFromPointer(ptr).Valid)
	var nilPtr *int
	assert.False(t, OptionalFromPointer(nilPtr).Valid)
}

type testProtocol string

const (
	testProtocolTCP testProtocol = "tcp"
	testProtocolUDP testProtocol = "udp"
)

func (v testProtocol) MarshalJSON() ([]byte, error) {
	return MarshalEnum(v, testProtocolTCP)
}

func (v *testProtocol) UnmarshalJSON(b []byte) error {
	val, err := UnmarshalEnum(b, testProtocolTCP, map[string]testProtocol{
		"tcp": testProtocolTCP,
		"udp": testProtocolUDP,
	})
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func TestEnumDefaultVariantEncodesAsEmptySet(t *testing.T) {
	data, err := json.Marshal(testProtocolTCP)
	require.NoError(t, err)
	assert.JSONEq(t, `["set", []]`, string(data))

	data, err = json.Marshal(testProtocolUDP)
	require.NoError(t, err)
	assert.JSONEq(t, `"udp"`, string(data))
}

func TestEnumDecodesEmptySetAsDefault(t *testing.T) {
	var v testProtocol
	require.NoError(t, json.Unmarshal([]byte(`["set", []]`), &v))
	assert.Equal(t, testProtocolTCP, v)

	require.NoError(t, json.Unmarshal([]byte(`"udp"`), &v))
	assert.Equal(t, testProtocolUDP, v)
}

func TestEnumRejectsUnknownVariant(t *testing.T) {
	var v testProtocol
	err := json.Unmarshal([]byte(`"sctp"`), &v)
	require.Error(t, err)
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)
}
