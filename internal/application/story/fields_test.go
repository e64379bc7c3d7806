package story

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "kidz-story-api/pkg/errors"
)

func TestField_UnmarshalJSON(t *testing.T) {
	var req struct {
		World Field `json:"world"`
		Theme Field `json:"theme"`
		Mood  Field `json:"mood"`
	}
	err := json.Unmarshal([]byte(`{"world":"Space","theme":["Friendship","Courage"],"mood":null}`), &req)
	require.NoError(t, err)

	assert.False(t, req.World.IsList())
	assert.Equal(t, []string{"Space"}, req.World.Values())
	assert.True(t, req.Theme.IsList())
	assert.Equal(t, []string{"Friendship", "Courage"}, req.Theme.Values())
	assert.True(t, req.Mood.IsEmpty())

	assert.Error(t, json.Unmarshal([]byte(`{"world":42}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"world":[1,2]}`), &req))
}

func TestField_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Field{
		"a": StringField("x"),
		"b": ListField("y", "z"),
		"c": {},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":["y","z"],"c":null}`, string(out))
}

func TestField_IsEmpty(t *testing.T) {
	assert.True(t, Field{}.IsEmpty())
	assert.True(t, StringField("   ").IsEmpty())
	assert.True(t, ListField().IsEmpty())
	assert.True(t, ListField("", "  ").IsEmpty())
	assert.False(t, StringField("Space").IsEmpty())
	assert.False(t, ListField("", "Space").IsEmpty())
}

func TestFormatField(t *testing.T) {
	s, err := FormatField(FieldWorld, ListField("Space", "", "Ocean"))
	require.NoError(t, err)
	assert.Equal(t, "Space, Ocean", s)

	s, err = FormatField(FieldWorld, StringField("Enchanted Forest"))
	require.NoError(t, err)
	assert.Equal(t, "Enchanted Forest", s)

	_, err = FormatField(FieldWorld, ListField(" "))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	assert.Contains(t, err.Error(), FieldWorld)
}

func TestParseFavoriteThings(t *testing.T) {
	items, err := ParseFavoriteThings(StringField(" dragons, cats ,, trains "))
	require.NoError(t, err)
	assert.Equal(t, []string{"dragons", "cats", "trains"}, items)

	items, err = ParseFavoriteThings(ListField("dragons", " ", "cats"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dragons", "cats"}, items)

	items, err = ParseFavoriteThings(ListField(" dragons ", "\tspace rockets\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dragons", "space rockets"}, items)

	_, err = ParseFavoriteThings(StringField(" , ,"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "The Brave Little Fox", CleanTitle(`"The Brave Little Fox"`))
	assert.Equal(t, "Moon Garden", CleanTitle(" 'Moon Garden' "))
	assert.Equal(t, "It's Magic", CleanTitle("It's Magic"))
}

func TestRequest_MissingFields(t *testing.T) {
	req := &Request{
		UserID:   "u1",
		AgeGroup: StringField("3-5"),
		World:    ListField(" "),
		Mood:     StringField("Happy"),
	}
	assert.Equal(t, []string{FieldLanguage, FieldFavoriteThings, FieldWorld, FieldTheme}, req.MissingFields())

	req = validRequest("English")
	assert.Empty(t, req.MissingFields())
}
