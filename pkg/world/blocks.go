package world

// Block ids of the beta wire format.
const (
	BlockAir                 byte = 0
	BlockStone               byte = 1
	BlockGrass               byte = 2
	BlockDirt                byte = 3
	BlockCobblestone         byte = 4
	BlockPlanks              byte = 5
	BlockSapling             byte = 6
	BlockBedrock             byte = 7
	BlockWater               byte = 8
	BlockStationaryWater     byte = 9
	BlockLava                byte = 10
	BlockStationaryLava      byte = 11
	BlockSand                byte = 12
	BlockGravel              byte = 13
	BlockGoldOre             byte = 14
	BlockIronOre             byte = 15
	BlockCoalOre             byte = 16
	BlockLog                 byte = 17
	BlockLeaves              byte = 18
	BlockSponge              byte = 19
	BlockGlass               byte = 20
	BlockLapisOre            byte = 21
	BlockLapisBlock          byte = 22
	BlockDispenser           byte = 23
	BlockSandstone           byte = 24
	BlockNoteBlock           byte = 25
	BlockWool                byte = 35
	BlockYellowFlower        byte = 37
	BlockRedRose             byte = 38
	BlockBrownMushroom       byte = 39
	BlockRedMushroom         byte = 40
	BlockGoldBlock           byte = 41
	BlockIronBlock           byte = 42
	BlockDoubleSlab          byte = 43
	BlockSlab                byte = 44
	BlockBrick               byte = 45
	BlockTNT                 byte = 46
	BlockBookshelf           byte = 47
	BlockMossyCobblestone    byte = 48
	BlockObsidian            byte = 49
	BlockTorch               byte = 50
	BlockFire                byte = 51
	BlockMobSpawner          byte = 52
	BlockWoodenStairs        byte = 53
	BlockChest               byte = 54
	BlockRedstoneWire        byte = 55
	BlockDiamondOre          byte = 56
	BlockDiamondBlock        byte = 57
	BlockWorkbench           byte = 58
	BlockCrops               byte = 59
	BlockSoil                byte = 60
	BlockFurnace             byte = 61
	BlockBurningFurnace      byte = 62
	BlockSignPost            byte = 63
	BlockWoodenDoor          byte = 64
	BlockLadder              byte = 65
	BlockMinecartTracks      byte = 66
	BlockCobblestoneStairs   byte = 67
	BlockWallSign            byte = 68
	BlockLever               byte = 69
	BlockStonePressurePlate  byte = 70
	BlockIronDoor            byte = 71
	BlockWoodenPressurePlate byte = 72
	BlockRedstoneOre         byte = 73
	BlockGlowingRedstoneOre  byte = 74
	BlockRedstoneTorchOff    byte = 75
	BlockRedstoneTorchOn     byte = 76
	BlockStoneButton         byte = 77
	BlockSnow                byte = 78
	BlockIce                 byte = 79
	BlockSnowBlock           byte = 80
	BlockCactus              byte = 81
	BlockClay                byte = 82
	BlockReed                byte = 83
	BlockJukebox             byte = 84
	BlockFence               byte = 85
	BlockPumpkin             byte = 86
	BlockNetherrack          byte = 87
	BlockSoulSand            byte = 88
	BlockGlowstone           byte = 89
	BlockPortal              byte = 90
	BlockJackOLantern        byte = 91
	BlockCake                byte = 92
)

// Item ids that only appear as drops.
const (
	ItemCoal          int16 = 263
	ItemDiamond       int16 = 264
	ItemFlint         int16 = 318
	ItemSign          int16 = 323
	ItemWoodenDoor    int16 = 324
	ItemIronDoor      int16 = 330
	ItemRedstone      int16 = 331
	ItemSnowball      int16 = 332
	ItemClayBall      int16 = 337
	ItemReed          int16 = 338
	ItemDye           int16 = 351
	ItemGlowstoneDust int16 = 348
)

// Torch metadata: which face of the neighbouring block the torch hangs on.
// A torch with TorchNorth sits at x+1 of its support, TorchSouth at x-1,
// TorchEast at z+1 and TorchWest at z-1.
const (
	TorchNone  byte = 0
	TorchNorth byte = 1
	TorchSouth byte = 2
	TorchEast  byte = 3
	TorchWest  byte = 4
	TorchTop   byte = 5
)

// Door metadata bits.
const (
	DoorHinge byte = 0x3
	DoorOpen  byte = 0x4
	DoorUpper byte = 0x8
)

// IsReplaceable reports whether a placement may overwrite the block.
func IsReplaceable(b byte) bool {
	return b == BlockAir || IsFluid(b)
}

// IsFluid reports whether b is flowing or stationary water or lava.
func IsFluid(b byte) bool {
	switch b {
	case BlockWater, BlockStationaryWater, BlockLava, BlockStationaryLava:
		return true
	}
	return false
}

// IsFixture reports whether clicking b must not place a block next to it.
func IsFixture(b byte) bool {
	switch b {
	case BlockWorkbench, BlockFurnace, BlockBurningFurnace, BlockChest, BlockJukebox, BlockTorch:
		return true
	}
	return false
}

// IsTorch reports whether b is any torch variant.
func IsTorch(b byte) bool {
	return b == BlockTorch || b == BlockRedstoneTorchOff || b == BlockRedstoneTorchOn
}

// IsAttachable reports whether b is a decoration mounted on another block.
func IsAttachable(b byte) bool {
	if IsTorch(b) {
		return true
	}
	switch b {
	case BlockBrownMushroom, BlockRedMushroom, BlockYellowFlower, BlockRedRose,
		BlockSapling, BlockRedstoneWire, BlockSignPost, BlockLadder,
		BlockMinecartTracks, BlockWallSign, BlockStonePressurePlate,
		BlockWoodenPressurePlate, BlockStoneButton, BlockPortal:
		return true
	}
	return false
}

// IsPassable reports whether an actor can stand inside b.
func IsPassable(b byte) bool {
	return b == BlockAir || b == BlockFire || IsFluid(b) || IsAttachable(b)
}

// NeedsSupport reports whether b breaks when the block under it is removed.
// Top-mounted torches also qualify but depend on their metadata.
func NeedsSupport(b byte) bool {
	switch b {
	case BlockSnow, BlockBrownMushroom, BlockRedMushroom, BlockYellowFlower, BlockRedRose, BlockSapling:
		return true
	}
	return false
}

// IsUnsupported reports whether b falls into an empty cell below it.
func IsUnsupported(b byte) bool {
	return b == BlockGravel || b == BlockSand || NeedsSupport(b)
}

// IsDoor reports whether b is a door leaf.
func IsDoor(b byte) bool {
	return b == BlockWoodenDoor || b == BlockIronDoor
}

// IsTall reports whether b occupies more than one cell of an actor's height.
func IsTall(b byte) bool {
	return IsDoor(b) || b == BlockFence
}
