package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Price  float64 `json:"price" validate:"gt=0"`
	Status string  `json:"status" validate:"oneof=Open Closed"`
	Image  string  `json:"image" validate:"mediaurl"`
}

func TestStruct(t *testing.T) {
	fields, err := Struct(sampleInput{
		Email:  "nope",
		Status: "Maybe",
		Image:  "ftp://example.com/a.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be greater than 0", fields["price"])
	assert.Contains(t, fields["status"], "must be one of")
	assert.Equal(t, "must be a valid URL", fields["image"])

	fields, err = Struct(sampleInput{
		Name:   "Ocean View",
		Email:  "agent@example.com",
		Price:  10,
		Status: "Open",
		Image:  "/media/properties/a.png",
	})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":                 "hello-world",
		"  Buying in Lagos: 5 Tips! ": "buying-in-lagos-5-tips",
		"Café Life":                   "cafe-life",
		"---":                         "",
		"Already-a-slug":              "already-a-slug",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsMediaURL(t *testing.T) {
	assert.True(t, IsMediaURL(""))
	assert.True(t, IsMediaURL("https://cdn.example.com/a.jpg"))
	assert.True(t, IsMediaURL("/media/blog/a.jpg"))
	assert.False(t, IsMediaURL("/media/../etc/passwd"))
	assert.False(t, IsMediaURL("javascript:alert(1)"))
}

func TestValidateAdminPassword(t *testing.T) {
	assert.Error(t, ValidateAdminPassword("short1A"))
	assert.Error(t, ValidateAdminPassword("alllowercase123"))
	assert.NoError(t, ValidateAdminPassword("Brokerage2024Admin"))
}
