package rng

// Arbitrary per-call-site constants used to seed hash streams.  Every call
// site gets its own constant so that streams derived from the same campaign
// seed never collide.
const (
	GenerateRoomsAndCorridors uint64 = 0x3fdc77fb4d7f5d2f
	FillRoomWithSpawns        uint64 = 0xd85af3d2cf6dcbc5
	MeleeAttack               uint64 = 0x90f04f3a19217d03
	GroundDecoration          uint64 = 0x5b16c1e4f8ad9b61
)
