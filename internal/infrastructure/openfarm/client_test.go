package openfarm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

func TestSearchCrops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/crops/", r.URL.Path)
		if r.URL.Query().Get("filter") == "Dragon Fruit" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "Tomato", r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"data":[{"id":"1","attributes":{
			"name":"Tomato","scientific_name":"Solanum lycopersicum","sun_requirements":"Full Sun",
			"sowing_method":"Direct seed","spread":45,"row_spacing":"60","height":null,
			"description":"Red fruit","main_image_path":"https://example.com/t.jpg"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, upstream.New("openfarm", upstream.Options{}, nil), nil)

	crops, err := c.SearchCrops(context.Background(), "Tomato")
	require.NoError(t, err)
	require.Len(t, crops, 1)
	got := crops[0]
	assert.Equal(t, "Tomato", got.Name)
	assert.Equal(t, "Solanum lycopersicum", got.ScientificName)
	assert.Equal(t, json.Number("45"), got.Spread)
	assert.Equal(t, "60", got.RowSpacing)
	assert.Nil(t, got.Height)
	assert.Equal(t, "https://example.com/t.jpg", got.ImageURL)

	_, err = c.SearchCrops(context.Background(), "Dragon Fruit")
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}
