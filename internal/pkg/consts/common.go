package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"

	// MaxMediaSize is the upload limit for one file.
	MaxMediaSize = 20 << 20
)

const (
	// MaxBuildTags caps tags on a new build.
	MaxBuildTags = 5
	// DefaultBuildListLimit is used when a listing request omits limit.
	DefaultBuildListLimit = 50
	MaxBuildListLimit     = 200
)

const (
	WeekWindowDays  = 7
	MonthWindowDays = 30
)

// AddressCtxKey carries the authenticated wallet address in request contexts.
const AddressCtxKey = "address"
