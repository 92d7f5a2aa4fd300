package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesForType_Coverage(t *testing.T) {
	tests := []struct {
		resultType    ResultType
		patternCount  int
		patternLength int
	}{
		{ResultTypeTemplateMaximum, 2, 20},
		{ResultTypeTemplateLong, 21, 14},
		{ResultTypeTemplateMedium, 2, 8},
		{ResultTypeTemplateShort, 1, 4},
		{ResultTypeTemplateBasic, 3, 8},
		{ResultTypeTemplatePIN, 1, 4},
		{ResultTypeTemplateName, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.resultType.Name(), func(t *testing.T) {
			templates := TemplatesForType(tt.resultType)
			require.Len(t, templates, tt.patternCount)
			for _, pattern := range templates {
				assert.Len(t, pattern, tt.patternLength)
			}
		})
	}

	// Phrase patterns are ragged; they only share the word-and-space shape.
	for _, pattern := range TemplatesForType(ResultTypeTemplatePhrase) {
		assert.GreaterOrEqual(t, len(pattern), 18)
		assert.LessOrEqual(t, len(pattern), 20)
	}
}

func TestTemplatesForType_EveryPatternCharacterHasClass(t *testing.T) {
	for resultType, templates := range resultTemplates {
		for _, pattern := range templates {
			for i := 0; i < len(pattern); i++ {
				class := CharactersInClass(pattern[i])
				assert.NotEmpty(t, class,
					"type %s pattern %q position %d has unknown class %q",
					resultType, pattern, i, pattern[i])
			}
		}
	}
}

func TestTemplatesForType_NonTemplateTypes(t *testing.T) {
	assert.Nil(t, TemplatesForType(ResultTypeStatefulPersonal))
	assert.Nil(t, TemplatesForType(ResultTypeDeriveKey))
}

func TestCharactersInClass(t *testing.T) {
	assert.Equal(t, "AEIOU", CharactersInClass('V'))
	assert.Equal(t, "BCDFGHJKLMNPQRSTVWXYZ", CharactersInClass('C'))
	assert.Equal(t, "aeiou", CharactersInClass('v'))
	assert.Equal(t, "bcdfghjklmnpqrstvwxyz", CharactersInClass('c'))
	assert.Equal(t, "0123456789", CharactersInClass('n'))
	assert.Equal(t, "@&%?,=[]_:-+*$#!'^~;()/.", CharactersInClass('o'))
	assert.Equal(t, " ", CharactersInClass(' '))
	assert.Empty(t, CharactersInClass('z'))
}
