package marshal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MidnightWonderer/MasterPassword/models"
)

const (
	testFullName       = "Robert Lee Mitchell"
	testMasterPassword = "banana colored duckling"
)

// testUser builds a profile with one of each site flavor.
func testUser() *models.User {
	return &models.User{
		FullName:       testFullName,
		MasterPassword: testMasterPassword,
		Algorithm:      models.AlgorithmVersionCurrent,
		DefaultType:    models.ResultTypeDefault,
		Redacted:       true,
		LastUsed:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Sites: []models.Site{
			{
				Name:      "masterpasswordapp.com",
				Type:      models.ResultTypeTemplateLong,
				Counter:   models.CounterValueInitial,
				Algorithm: models.AlgorithmVersionCurrent,
				LoginName: "robert",
				URL:       "https://masterpasswordapp.com",
				Uses:      3,
				LastUsed:  time.Date(2026, 7, 30, 8, 30, 0, 0, time.UTC),
				Questions: []models.Question{
					{Keyword: "", Type: models.ResultTypeTemplatePhrase},
					{Keyword: "pet", Type: models.ResultTypeTemplatePhrase},
				},
			},
			{
				Name:      "personal.example",
				Type:      models.ResultTypeStatefulPersonal,
				Counter:   models.CounterValueInitial,
				Algorithm: models.AlgorithmVersionCurrent,
				Content:   "my stored personal password",
				LastUsed:  time.Date(2026, 7, 29, 9, 0, 0, 0, time.UTC),
			},
			{
				Name:      "edge.example",
				Type:      models.ResultTypeTemplateMaximum,
				Counter:   models.CounterValueLast,
				Algorithm: models.AlgorithmVersionCurrent,
				LastUsed:  time.Date(2026, 7, 28, 9, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestWriteRead_JSONRoundTrip(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, models.MarshalFormatJSON, DetectFormat(data))

	loaded, err := Read(data, models.MarshalFormatJSON, testMasterPassword)
	require.NoError(t, err)

	assert.Equal(t, user.FullName, loaded.FullName)
	assert.Equal(t, user.KeyID, loaded.KeyID)
	assert.Equal(t, user.Algorithm, loaded.Algorithm)
	assert.Equal(t, user.DefaultType, loaded.DefaultType)
	assert.Equal(t, user.Redacted, loaded.Redacted)
	assert.Equal(t, testMasterPassword, loaded.MasterPassword)
	require.Len(t, loaded.Sites, len(user.Sites))

	for i := range user.Sites {
		want, got := user.Sites[i], loaded.Sites[i]
		assert.Equal(t, want.Name, got.Name, "site %d", i)
		assert.Equal(t, want.Type, got.Type, "site %d", i)
		assert.Equal(t, want.Counter, got.Counter, "site %d", i)
		assert.Equal(t, want.Algorithm, got.Algorithm, "site %d", i)
		assert.Equal(t, want.LoginName, got.LoginName, "site %d", i)
		assert.Equal(t, want.URL, got.URL, "site %d", i)
		assert.Equal(t, want.Uses, got.Uses, "site %d", i)
		assert.True(t, want.LastUsed.Equal(got.LastUsed), "site %d", i)
	}

	// Stateful content survives the seal/open cycle.
	personal := loaded.FindSite("personal.example")
	require.NotNil(t, personal)
	assert.Equal(t, "my stored personal password", personal.Content)

	// Questions survive with their keywords in order.
	site := loaded.FindSite("masterpasswordapp.com")
	require.NotNil(t, site)
	require.Len(t, site.Questions, 2)
	assert.Equal(t, "", site.Questions[0].Keyword)
	assert.Equal(t, "pet", site.Questions[1].Keyword)
}

func TestWrite_JSONRedactionHidesSecrets(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)

	serialized := string(data)
	assert.NotContains(t, serialized, "my stored personal password")
	assert.NotContains(t, serialized, testMasterPassword)
	assert.NotContains(t, serialized, "Jejr5[RepuSosp")
}

func TestWrite_JSONPreservesSiteOrder(t *testing.T) {
	user := &models.User{
		FullName:       testFullName,
		MasterPassword: testMasterPassword,
		Algorithm:      models.AlgorithmVersionCurrent,
		DefaultType:    models.ResultTypeDefault,
		Redacted:       true,
	}
	for _, name := range []string{"zebra.com", "apple.com", "mango.com"} {
		user.AddSite(models.Site{
			Name:      name,
			Type:      models.ResultTypeTemplateLong,
			Counter:   models.CounterValueInitial,
			Algorithm: models.AlgorithmVersionCurrent,
		})
	}

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)

	serialized := string(data)
	zebra := strings.Index(serialized, `"zebra.com"`)
	apple := strings.Index(serialized, `"apple.com"`)
	mango := strings.Index(serialized, `"mango.com"`)
	require.NotEqual(t, -1, zebra)
	require.NotEqual(t, -1, apple)
	require.NotEqual(t, -1, mango)
	assert.Less(t, zebra, apple)
	assert.Less(t, apple, mango)
}

func TestWriteRead_FlatRoundTrip(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatFlat)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), FlatMagic))
	assert.Equal(t, models.MarshalFormatFlat, DetectFormat(data))

	loaded, err := Read(data, models.MarshalFormatFlat, testMasterPassword)
	require.NoError(t, err)

	assert.Equal(t, user.FullName, loaded.FullName)
	assert.Equal(t, user.KeyID, loaded.KeyID)
	assert.Equal(t, user.Algorithm, loaded.Algorithm)
	assert.Equal(t, user.DefaultType, loaded.DefaultType)
	assert.True(t, loaded.Redacted)
	require.Len(t, loaded.Sites, len(user.Sites))

	for i := range user.Sites {
		want, got := user.Sites[i], loaded.Sites[i]
		assert.Equal(t, want.Name, got.Name, "site %d", i)
		assert.Equal(t, want.Type, got.Type, "site %d", i)
		assert.Equal(t, want.Counter, got.Counter, "site %d", i)
		assert.Equal(t, want.Algorithm, got.Algorithm, "site %d", i)
		assert.Equal(t, want.LoginName, got.LoginName, "site %d", i)
		assert.Equal(t, want.Uses, got.Uses, "site %d", i)
	}

	personal := loaded.FindSite("personal.example")
	require.NotNil(t, personal)
	assert.Equal(t, "my stored personal password", personal.Content)
}

func TestRead_WrongMasterPassword(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)

	_, err = Read(data, models.MarshalFormatJSON, "not the password")
	assert.ErrorIs(t, err, ErrMasterPassword)
}

func TestRead_UnredactedRegeneratesNothing(t *testing.T) {
	user := testUser()
	user.Redacted = false

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)

	// The clear-text export carries the template credential verbatim.
	assert.Contains(t, string(data), "Jejr5[RepuSosp")
	// And the stateful content in the clear.
	assert.Contains(t, string(data), "my stored personal password")

	loaded, err := Read(data, models.MarshalFormatJSON, testMasterPassword)
	require.NoError(t, err)

	personal := loaded.FindSite("personal.example")
	require.NotNil(t, personal)
	assert.Equal(t, "my stored personal password", personal.Content)
}

func TestReadInfo_JSON(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)

	info, err := ReadInfo(data)
	require.NoError(t, err)
	assert.Equal(t, models.MarshalFormatJSON, info.Format)
	assert.Equal(t, testFullName, info.FullName)
	assert.Equal(t, models.AlgorithmVersionCurrent, info.Algorithm)
	assert.Equal(t, user.KeyID, info.KeyID)
	assert.True(t, info.Redacted)
}

func TestReadInfo_Flat(t *testing.T) {
	user := testUser()

	data, err := Write(user, models.MarshalFormatFlat)
	require.NoError(t, err)

	info, err := ReadInfo(data)
	require.NoError(t, err)
	assert.Equal(t, models.MarshalFormatFlat, info.Format)
	assert.Equal(t, testFullName, info.FullName)
	assert.Equal(t, models.AlgorithmVersionCurrent, info.Algorithm)
	assert.Equal(t, user.KeyID, info.KeyID)
	assert.True(t, info.Redacted)
}

func TestReadInfo_Garbage(t *testing.T) {
	_, err := ReadInfo([]byte("not a profile"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestRead_FlatV0Dialect(t *testing.T) {
	// A dialect-0 export declares Format 0, has no Algorithm/Default Type
	// headers and frames the type column as <type>:<counter>.
	flat := FlatMagic + "\n" +
		"#     Export of site names and passwords in clear-text.\n" +
		"# \n" +
		"##\n" +
		"# Format: 0\n" +
		"# Date: 2012-05-01T10:00:00Z\n" +
		"# User Name: " + testFullName + "\n" +
		"# Full Name: " + testFullName + "\n" +
		"# Avatar: 0\n" +
		"# Passwords: PROTECTED\n" +
		"##\n" +
		"#\n" +
		"2012-05-01T10:00:00Z         5  17:2                     robert\t    masterpasswordapp.com\t\n"

	loaded, err := Read([]byte(flat), models.MarshalFormatFlat, testMasterPassword)
	require.NoError(t, err)

	assert.Equal(t, models.AlgorithmVersionV0, loaded.Algorithm)
	require.Len(t, loaded.Sites, 1)

	site := loaded.Sites[0]
	assert.Equal(t, "masterpasswordapp.com", site.Name)
	assert.Equal(t, models.ResultTypeTemplateLong, site.Type)
	assert.Equal(t, models.CounterValue(2), site.Counter)
	assert.Equal(t, models.AlgorithmVersionV0, site.Algorithm)
	assert.Equal(t, "robert", site.LoginName)
	assert.Equal(t, uint32(5), site.Uses)
}

func TestRead_FlatMalformedSiteLine(t *testing.T) {
	flat := FlatMagic + "\n" +
		"# Format: 1\n" +
		"# Full Name: " + testFullName + "\n" +
		"# Passwords: PROTECTED\n" +
		"##\n" +
		"this is not a site record\n"

	_, err := Read([]byte(flat), models.MarshalFormatFlat, testMasterPassword)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestWrite_RequiresMasterPassword(t *testing.T) {
	user := testUser()
	user.MasterPassword = ""

	_, err := Write(user, models.MarshalFormatJSON)
	assert.ErrorIs(t, err, ErrMasterPassword)
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	_, err := Write(testUser(), models.MarshalFormatNone)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestWrite_DevicePrivateContentNeverExported(t *testing.T) {
	user := testUser()
	user.Sites = append(user.Sites, models.Site{
		Name:      "device.example",
		Type:      models.ResultTypeStatefulDevice,
		Counter:   models.CounterValueInitial,
		Algorithm: models.AlgorithmVersionCurrent,
		Content:   "device only secret",
	})

	data, err := Write(user, models.MarshalFormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "device only secret")

	loaded, err := Read(data, models.MarshalFormatJSON, testMasterPassword)
	require.NoError(t, err)

	device := loaded.FindSite("device.example")
	require.NotNil(t, device)
	assert.Empty(t, device.Content)
}
