package engine

// REST 1.1 endpoints. Paths containing {id} take the exchange's correlation
// key as a positional identifier.
const (
	apiBase    = "https://api.twitter.com/1.1"
	uploadBase = "https://upload.twitter.com/1.1"

	endpointVerifyCredentials = apiBase + "/account/verify_credentials.json"
	endpointAccountSettings   = apiBase + "/account/settings.json"
	endpointHelpConfiguration = apiBase + "/help/configuration.json"
	endpointHelpPrivacy       = apiBase + "/help/privacy.json"
	endpointHelpTos           = apiBase + "/help/tos.json"

	endpointStatusesUpdate    = apiBase + "/statuses/update.json"
	endpointStatusesDestroy   = apiBase + "/statuses/destroy/{id}.json"
	endpointStatusesRetweet   = apiBase + "/statuses/retweet/{id}.json"
	endpointStatusesUnretweet = apiBase + "/statuses/unretweet/{id}.json"
	endpointStatusesRetweets  = apiBase + "/statuses/retweets/{id}.json"
	endpointStatusesShow      = apiBase + "/statuses/show.json"

	endpointHomeTimeline     = apiBase + "/statuses/home_timeline.json"
	endpointMentionsTimeline = apiBase + "/statuses/mentions_timeline.json"
	endpointRetweetTimeline  = apiBase + "/statuses/retweets_of_me.json"
	endpointUserTimeline     = apiBase + "/statuses/user_timeline.json"

	endpointUsersShow   = apiBase + "/users/show.json"
	endpointUsersSearch = apiBase + "/users/search.json"

	endpointFollowersList      = apiBase + "/followers/list.json"
	endpointFriendsList        = apiBase + "/friends/list.json"
	endpointFriendshipsCreate  = apiBase + "/friendships/create.json"
	endpointFriendshipsDestroy = apiBase + "/friendships/destroy.json"

	endpointFavoritesCreate  = apiBase + "/favorites/create.json"
	endpointFavoritesDestroy = apiBase + "/favorites/destroy.json"
	endpointFavoritesList    = apiBase + "/favorites/list.json"

	endpointSearchTweets = apiBase + "/search/tweets.json"
	endpointSearchGeo    = apiBase + "/geo/search.json"

	endpointTrendsPlace   = apiBase + "/trends/place.json"
	endpointTrendsClosest = apiBase + "/trends/closest.json"

	endpointSavedSearchesList    = apiBase + "/saved_searches/list.json"
	endpointSavedSearchesCreate  = apiBase + "/saved_searches/create.json"
	endpointSavedSearchesDestroy = apiBase + "/saved_searches/destroy/{id}.json"

	endpointListsList        = apiBase + "/lists/list.json"
	endpointListsMemberships = apiBase + "/lists/memberships.json"
	endpointListsMembers     = apiBase + "/lists/members.json"
	endpointListsStatuses    = apiBase + "/lists/statuses.json"

	endpointDirectMessagesList = apiBase + "/direct_messages/events/list.json"
	endpointDirectMessagesNew  = apiBase + "/direct_messages/events/new.json"

	endpointMediaUpload   = uploadBase + "/media/upload.json"
	endpointMediaMetadata = uploadBase + "/media/metadata/create.json"

	endpointIPInfo = "https://ipinfo.io/json"
)
