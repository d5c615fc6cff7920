package auth

// Scopes are the OAuth scopes requested for every user: full access to
// Calendar and Tasks, the two services this server mirrors to.
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/tasks",
}
