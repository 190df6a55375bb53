package schema_test

import (
	"testing"

	"airwatch/internal/models"
	"airwatch/internal/schema"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaIsTotal(t *testing.T) {
	s := schema.Default()

	for i, m := range models.DisplayOrder {
		spec, ok := s.Lookup(m)
		require.True(t, ok, "metric %s", m)
		require.Equal(t, m, spec.Range.Metric)
		require.Equal(t, "field"+string(rune('1'+i)), spec.FieldKey)
	}

	ranges := s.Ranges()
	require.Len(t, ranges, len(models.DisplayOrder))
	require.Equal(t, 18.0, ranges[models.Temperature].Min)
	require.Equal(t, 30.0, ranges[models.Temperature].Max)
}

func TestNewRejectsInvalidSchemas(t *testing.T) {
	base := schema.Default().Specs()

	dupKey := append([]schema.MetricSpec(nil), base...)
	dupKey[1].FieldKey = "field1"
	_, err := schema.New(dupKey)
	require.Error(t, err)

	missing := append([]schema.MetricSpec(nil), base[:5]...)
	_, err = schema.New(missing)
	require.ErrorContains(t, err, "aqi")

	inverted := append([]schema.MetricSpec(nil), base...)
	inverted[0].Range.Min, inverted[0].Range.Max = 30, 18
	_, err = schema.New(inverted)
	require.Error(t, err)

	badKey := append([]schema.MetricSpec(nil), base...)
	badKey[2].FieldKey = "voc"
	_, err = schema.New(badKey)
	require.Error(t, err)
}

func TestResolveKeepsFieldKeysInOrder(t *testing.T) {
	channel := models.ChannelMetadata{
		{Key: "id", Value: "2837410"},
		{Key: "name", Value: "ESP32 air quality"},
		{Key: "field3", Value: "VOC"},
		{Key: "field1", Value: "Temperatura"},
		{Key: "field_notes", Value: "x"},
		{Key: "Field2", Value: "Umidade"},
		{Key: "myfield4", Value: "eCO2"},
		{Key: "field2", Value: "Umidade"},
		{Key: "created_at", Value: "2025-03-01T12:00:00Z"},
	}

	fields := schema.Resolve(channel)
	require.Equal(t, models.ChannelMetadata{
		{Key: "field3", Value: "VOC"},
		{Key: "field1", Value: "Temperatura"},
		{Key: "field2", Value: "Umidade"},
	}, fields)
}

func TestResolveEmpty(t *testing.T) {
	require.Empty(t, schema.Resolve(nil))
	require.Empty(t, schema.Resolve(models.ChannelMetadata{{Key: "name", Value: "x"}}))
}

func TestTitleFallsBackToSchemaLabel(t *testing.T) {
	s := schema.Default()
	fields := models.ChannelMetadata{{Key: "field1", Value: "Temperatura"}}

	require.Equal(t, "Temperatura", s.Title(fields, models.Temperature))
	require.Equal(t, "💧 Humidity", s.Title(fields, models.Humidity))
}
