package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomizationsFull(t *testing.T) {
	raw := []byte(`{
		"default_room": {"room_id": 1, "room_price": 1000000},
		"room_upgrade": {"room_id": 2, "room_price": 1500000},
		"selected_meals": [
			{"day_number": 1, "meal_session": "morning"},
			{"day_number": 2, "meal_session": "evening"}
		],
		"transport_options": {"outbound": true, "return": false},
		"actual_people_count": 3
	}`)

	c, err := ParseCustomizations(1, raw)
	require.NoError(t, err)

	require.NotNil(t, c.DefaultRoom)
	assert.Equal(t, int64(1), c.DefaultRoom.RoomID)
	require.NotNil(t, c.RoomUpgrade)
	assert.Equal(t, int64(2), c.RoomUpgrade.RoomID)
	require.Len(t, c.SelectedMeals, 2)
	assert.Equal(t, "morning", c.SelectedMeals[0].MealSession)
	require.NotNil(t, c.TransportOptions)
	assert.True(t, c.TransportOptions.Outbound)
	assert.False(t, c.TransportOptions.Return)
	require.NotNil(t, c.ActualPeopleCount)
	assert.Equal(t, 3, *c.ActualPeopleCount)
}

func TestParseCustomizationsEmpty(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("  "), []byte("null")} {
		c, err := ParseCustomizations(1, raw)
		require.NoError(t, err)
		assert.Nil(t, c.DefaultRoom)
		assert.Nil(t, c.RoomUpgrade)
		assert.Empty(t, c.SelectedMeals)
		assert.Nil(t, c.TransportOptions)
	}
}

func TestParseCustomizationsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"top level string":        []byte(`"extras"`),
		"top level array":         []byte(`[1, 2]`),
		"top level number":        []byte(`42`),
		"selected_meals string":   []byte(`{"selected_meals": "morning"}`),
		"selected_meals object":   []byte(`{"selected_meals": {"day_number": 1}}`),
		"default_room not object": []byte(`{"default_room": [1]}`),
	}
	for name, raw := range cases {
		_, err := ParseCustomizations(7, raw)
		require.Error(t, err, name)
		assert.True(t, IsMalformedCustomizations(err), name)
	}
}

func TestParseCustomizationsUnknownFieldsTolerated(t *testing.T) {
	c, err := ParseCustomizations(1, []byte(`{"promo_note": "vip", "actual_people_count": 2}`))
	require.NoError(t, err)
	require.NotNil(t, c.ActualPeopleCount)
	assert.Equal(t, 2, *c.ActualPeopleCount)
}

func TestChosenRoomPrefersUpgrade(t *testing.T) {
	c := Customizations{
		DefaultRoom: &RoomSelection{RoomID: 1},
		RoomUpgrade: &RoomSelection{RoomID: 2},
	}
	assert.Equal(t, int64(2), c.ChosenRoom().RoomID)

	c.RoomUpgrade = nil
	assert.Equal(t, int64(1), c.ChosenRoom().RoomID)

	c.DefaultRoom = nil
	assert.Nil(t, c.ChosenRoom())
}

func TestEffectiveGuests(t *testing.T) {
	three := 3
	zero := 0

	c := Customizations{ActualPeopleCount: &three}
	assert.Equal(t, 3, c.EffectiveGuests(5))

	c = Customizations{}
	assert.Equal(t, 5, c.EffectiveGuests(5))

	c = Customizations{ActualPeopleCount: &zero}
	assert.Equal(t, 5, c.EffectiveGuests(5))
}
