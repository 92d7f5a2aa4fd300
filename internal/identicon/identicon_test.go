package identicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MidnightWonderer/MasterPassword/internal/crypto"
)

func TestNew_Deterministic(t *testing.T) {
	first := New("Robert Lee Mitchell", "banana colored duckling")
	second := New("Robert Lee Mitchell", "banana colored duckling")

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Text())
}

func TestNew_FollowsSeed(t *testing.T) {
	const fullName = "Robert Lee Mitchell"
	const masterPassword = "banana colored duckling"

	seed := crypto.HMACSHA256([]byte(masterPassword), []byte(fullName))
	icon := New(fullName, masterPassword)

	assert.Equal(t, leftArms[int(seed[0])%len(leftArms)], icon.LeftArm)
	assert.Equal(t, bodies[int(seed[1])%len(bodies)], icon.Body)
	assert.Equal(t, rightArms[int(seed[2])%len(rightArms)], icon.RightArm)
	assert.Equal(t, accessories[int(seed[3])%len(accessories)], icon.Accessory)
	assert.Equal(t, uint8(seed[4])%7+1, icon.Color)
}

func TestNew_SensitiveToTypos(t *testing.T) {
	good := New("Robert Lee Mitchell", "banana colored duckling")
	typo := New("Robert Lee Mitchell", "banana colored ducklimg")

	// Distinct inputs nearly always change at least one glyph; these two
	// are known to differ.
	assert.NotEqual(t, good, typo)
}

func TestTables_Shape(t *testing.T) {
	// The glyph tables are a compatibility surface.
	require.Len(t, leftArms, 4)
	require.Len(t, bodies, 6)
	require.Len(t, rightArms, 4)
	require.Len(t, accessories, 40)
}

func TestColor_Range(t *testing.T) {
	icon := New("someone", "something")
	assert.GreaterOrEqual(t, icon.Color, uint8(1))
	assert.LessOrEqual(t, icon.Color, uint8(7))
}

func TestText_Composition(t *testing.T) {
	icon := Identicon{LeftArm: "╔", Body: "█", RightArm: "╗", Accessory: "☂", Color: 3}
	assert.Equal(t, "╔█╗☂", icon.Text())
}
