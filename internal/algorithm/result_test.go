package algorithm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MidnightWonderer/MasterPassword/models"
)

func TestSiteState_RoundTrip(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	state, err := SiteState(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", "saved personal password", models.AlgorithmVersionV3)
	require.NoError(t, err)
	assert.NotContains(t, state, "saved personal password")

	revealed, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultTypeStatefulPersonal, state, models.AlgorithmVersionV3)
	require.NoError(t, err)
	assert.Equal(t, "saved personal password", revealed)
}

func TestSiteState_WrongParametersDontReveal(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	state, err := SiteState(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", "secret", models.AlgorithmVersionV3)
	require.NoError(t, err)

	revealed, err := SiteResult(masterKey, testSiteName, 2,
		models.KeyPurposeAuthentication, "", models.ResultTypeStatefulPersonal, state, models.AlgorithmVersionV3)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", revealed)
}

func TestSiteResult_StatefulRejectsBadBase64(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	_, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultTypeStatefulPersonal, "!!!", models.AlgorithmVersionV3)
	assert.Error(t, err)
}

func TestDerivedResult_Sizes(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	tests := []struct {
		param     string
		hexLength int
	}{
		{param: "128", hexLength: 32},
		{param: "256", hexLength: 64},
		{param: "512", hexLength: 128},
		{param: "", hexLength: 128}, // defaults to 512 bits
	}

	for _, tt := range tests {
		result, err := SiteResult(masterKey, testSiteName, 1,
			models.KeyPurposeAuthentication, "", models.ResultTypeDeriveKey, tt.param, models.AlgorithmVersionV3)
		require.NoError(t, err, "param %q", tt.param)
		assert.Len(t, result, tt.hexLength, "param %q", tt.param)
		assert.Equal(t, strings.ToUpper(result), result, "param %q", tt.param)
	}
}

func TestDerivedResult_TruncationIsPrefix(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	key128, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultTypeDeriveKey, "128", models.AlgorithmVersionV3)
	require.NoError(t, err)

	key256, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultTypeDeriveKey, "256", models.AlgorithmVersionV3)
	require.NoError(t, err)

	key512, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultTypeDeriveKey, "512", models.AlgorithmVersionV3)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key256, key128))
	assert.True(t, strings.HasPrefix(key512, key256))
}

func TestDerivedResult_RejectsBadSizes(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	for _, param := range []string{"0", "64", "192", "1024", "lots"} {
		_, err := SiteResult(masterKey, testSiteName, 1,
			models.KeyPurposeAuthentication, "", models.ResultTypeDeriveKey, param, models.AlgorithmVersionV3)
		assert.Error(t, err, "param %q", param)
	}
}

func TestSiteResult_UnknownType(t *testing.T) {
	masterKey := testMasterKey(t, models.AlgorithmVersionV3)

	_, err := SiteResult(masterKey, testSiteName, 1,
		models.KeyPurposeAuthentication, "", models.ResultType(7), "", models.AlgorithmVersionV3)
	assert.Error(t, err)
}

func TestSeedIndex_V0SignedWraparound(t *testing.T) {
	// 0xFF reads as -1 under V0: ((-1 % 21) + 21) % 21 = 20.
	assert.Equal(t, 20, seedIndex(0xFF, models.AlgorithmVersionV0, 21))
	// The same byte reads as 255 from V1 on: 255 % 21 = 3.
	assert.Equal(t, 3, seedIndex(0xFF, models.AlgorithmVersionV1, 21))

	// Positive bytes agree across versions.
	assert.Equal(t, seedIndex(0x42, models.AlgorithmVersionV0, 21), seedIndex(0x42, models.AlgorithmVersionV1, 21))
}
