package repoargs

type RepositoryName string

const (
	PlayerRepoName  RepositoryName = "player"
	ListingRepoName RepositoryName = "listing"
	AuditRepoName   RepositoryName = "audit"
)
