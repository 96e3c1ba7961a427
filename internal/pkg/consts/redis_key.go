package consts

const (
	AuthChallengeKey         = "auth:challenge:"
	TokenRevokedKey          = "auth:revoked:"
	BuildVoteDirtyKey        = "build:vote:dirty"
	ProfileAggregateDirtyKey = "profile:aggregate:dirty"
	LeaderboardSnapshotKey   = "leaderboard:snapshot:"
)

const (
	VoteLock     = "vote:lock:"
	UsernameLock = "profile:username:lock:"
)
