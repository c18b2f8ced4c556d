package engine

import "net/http"

// Shape is the JSON shape a successful response must decode into.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeList
)

// Logical operation names accepted by Dispatch.
const (
	OpVerifyCredentials  = "verify_credentials"
	OpAccountSettings    = "account_settings"
	OpHelpConfiguration  = "help_configuration"
	OpHelpPrivacy        = "help_privacy"
	OpHelpTos            = "help_tos"
	OpTweet              = "tweet"
	OpDestroyTweet       = "destroy_tweet"
	OpRetweet            = "retweet"
	OpUnretweet          = "unretweet"
	OpRetweetsFor        = "retweets_for"
	OpFavorite           = "favorite"
	OpUnfavorite         = "unfavorite"
	OpFavorites          = "favorites"
	OpHomeTimeline       = "home_timeline"
	OpMentionsTimeline   = "mentions_timeline"
	OpRetweetTimeline    = "retweet_timeline"
	OpUserTimeline       = "user_timeline"
	OpShowStatus         = "show_status"
	OpShowUser           = "show_user"
	OpFollowers          = "followers"
	OpFriends            = "friends"
	OpFollow             = "follow"
	OpUnfollow           = "unfollow"
	OpSearchTweets       = "search_tweets"
	OpSearchUsers        = "search_users"
	OpSearchGeo          = "search_geo"
	OpTrends             = "trends"
	OpPlacesForTrends    = "places_for_trends"
	OpSavedSearches      = "saved_searches"
	OpSaveSearch         = "save_search"
	OpDestroySavedSearch = "destroy_saved_search"
	OpUserLists          = "user_lists"
	OpListsMemberships   = "lists_memberships"
	OpListMembers        = "list_members"
	OpListTimeline       = "list_timeline"
	OpDirectMessagesList = "direct_messages_list"
	OpDirectMessagesNew  = "direct_messages_new"
	OpMediaMetadata      = "media_metadata"
	OpIPInfo             = "ip_info"
)

// Operation is the static description of one logical remote call. The table
// below is built once at startup and never mutated.
type Operation struct {
	Name     string
	Method   string
	Endpoint string
	Shape    Shape

	// Write marks mutating calls; read calls are idempotent.
	Write bool

	// AllowFallback permits one transparent retry under the alternate
	// identity when the remote reports the caller as blocked.
	AllowFallback bool

	// Placeholder degrades a terminal failure into a synthetic success
	// payload instead of an error.
	Placeholder bool

	// Timeline tags results with the initial-page flag, computed from the
	// presence of CursorParam on the request.
	Timeline    bool
	CursorParam string

	// QueryParam names the search-query argument; an empty value
	// short-circuits to an empty list without a network call.
	QueryParam string

	// DedupeReshares collapses reshares of the same status in the result.
	DedupeReshares bool

	// ListField plucks a list payload out of an object-shaped response.
	ListField string

	// KeyParam names the argument echoed back as the correlation key.
	KeyParam string

	// Overrides are forced onto the decoded object after a successful
	// exchange, replacing whatever the remote returned.
	Overrides map[string]interface{}

	Defaults map[string]string
}

// Canonical default parameter sets shared by most read operations.
var (
	extendedStatusDefaults = map[string]string{
		"tweet_mode":           "extended",
		"include_entities":     "true",
		"trim_user":            "false",
		"include_ext_alt_text": "true",
	}
	extendedUserDefaults = map[string]string{
		"tweet_mode":       "extended",
		"include_entities": "true",
	}
	followListDefaults = map[string]string{
		"tweet_mode":            "extended",
		"count":                 "200",
		"skip_status":           "true",
		"include_user_entities": "true",
	}
)

var operations = map[string]*Operation{
	OpVerifyCredentials: {Name: OpVerifyCredentials, Method: http.MethodGet, Endpoint: endpointVerifyCredentials, Shape: ShapeObject},
	OpAccountSettings:   {Name: OpAccountSettings, Method: http.MethodGet, Endpoint: endpointAccountSettings, Shape: ShapeObject},
	OpHelpConfiguration: {Name: OpHelpConfiguration, Method: http.MethodGet, Endpoint: endpointHelpConfiguration, Shape: ShapeObject},
	OpHelpPrivacy:       {Name: OpHelpPrivacy, Method: http.MethodGet, Endpoint: endpointHelpPrivacy, Shape: ShapeObject},
	OpHelpTos:           {Name: OpHelpTos, Method: http.MethodGet, Endpoint: endpointHelpTos, Shape: ShapeObject},

	OpTweet: {Name: OpTweet, Method: http.MethodPost, Endpoint: endpointStatusesUpdate, Shape: ShapeObject, Write: true},
	OpDestroyTweet: {Name: OpDestroyTweet, Method: http.MethodPost, Endpoint: endpointStatusesDestroy, Shape: ShapeObject, Write: true,
		KeyParam: "id", Defaults: extendedStatusDefaults},
	OpRetweet: {Name: OpRetweet, Method: http.MethodPost, Endpoint: endpointStatusesRetweet, Shape: ShapeObject, Write: true,
		KeyParam: "id", Defaults: extendedStatusDefaults},
	OpUnretweet: {Name: OpUnretweet, Method: http.MethodPost, Endpoint: endpointStatusesUnretweet, Shape: ShapeObject, Write: true,
		KeyParam: "id", Defaults: extendedStatusDefaults},
	OpRetweetsFor: {Name: OpRetweetsFor, Method: http.MethodGet, Endpoint: endpointStatusesRetweets, Shape: ShapeList,
		KeyParam: "id", Defaults: extendedStatusDefaults},

	OpFavorite: {Name: OpFavorite, Method: http.MethodPost, Endpoint: endpointFavoritesCreate, Shape: ShapeObject, Write: true,
		KeyParam: "id", Defaults: extendedStatusDefaults},
	OpUnfavorite: {Name: OpUnfavorite, Method: http.MethodPost, Endpoint: endpointFavoritesDestroy, Shape: ShapeObject, Write: true,
		KeyParam: "id", Defaults: extendedStatusDefaults},
	OpFavorites: {Name: OpFavorites, Method: http.MethodGet, Endpoint: endpointFavoritesList, Shape: ShapeList,
		Timeline: true, CursorParam: "max_id", Defaults: extendedStatusDefaults},

	OpHomeTimeline: {Name: OpHomeTimeline, Method: http.MethodGet, Endpoint: endpointHomeTimeline, Shape: ShapeList,
		Timeline: true, CursorParam: "max_id",
		Defaults: mergeDefaults(extendedStatusDefaults, map[string]string{"count": "200", "exclude_replies": "false"})},
	OpMentionsTimeline: {Name: OpMentionsTimeline, Method: http.MethodGet, Endpoint: endpointMentionsTimeline, Shape: ShapeList,
		Timeline: true, CursorParam: "max_id",
		Defaults: mergeDefaults(extendedStatusDefaults, map[string]string{"count": "200"})},
	OpRetweetTimeline: {Name: OpRetweetTimeline, Method: http.MethodGet, Endpoint: endpointRetweetTimeline, Shape: ShapeList,
		Timeline: true, CursorParam: "max_id",
		Defaults: mergeDefaults(extendedStatusDefaults, map[string]string{"count": "10"})},
	OpUserTimeline: {Name: OpUserTimeline, Method: http.MethodGet, Endpoint: endpointUserTimeline, Shape: ShapeList,
		AllowFallback: true, Timeline: true, CursorParam: "max_id", KeyParam: "screen_name",
		Defaults: map[string]string{"tweet_mode": "extended", "count": "200", "include_rts": "true",
			"exclude_replies": "false", "include_ext_alt_text": "true"}},

	OpShowStatus: {Name: OpShowStatus, Method: http.MethodGet, Endpoint: endpointStatusesShow, Shape: ShapeObject,
		AllowFallback: true, Placeholder: true, KeyParam: "id", Defaults: extendedStatusDefaults},
	OpShowUser: {Name: OpShowUser, Method: http.MethodGet, Endpoint: endpointUsersShow, Shape: ShapeObject,
		Defaults: extendedUserDefaults},

	OpFollowers: {Name: OpFollowers, Method: http.MethodGet, Endpoint: endpointFollowersList, Shape: ShapeObject,
		Defaults: followListDefaults},
	OpFriends: {Name: OpFriends, Method: http.MethodGet, Endpoint: endpointFriendsList, Shape: ShapeObject,
		Defaults: followListDefaults},
	OpFollow: {Name: OpFollow, Method: http.MethodPost, Endpoint: endpointFriendshipsCreate, Shape: ShapeObject, Write: true,
		KeyParam: "screen_name", Overrides: map[string]interface{}{"following": true},
		Defaults: map[string]string{"tweet_mode": "extended"}},
	OpUnfollow: {Name: OpUnfollow, Method: http.MethodPost, Endpoint: endpointFriendshipsDestroy, Shape: ShapeObject, Write: true,
		KeyParam: "screen_name", Overrides: map[string]interface{}{"following": false},
		Defaults: map[string]string{"tweet_mode": "extended"}},

	OpSearchTweets: {Name: OpSearchTweets, Method: http.MethodGet, Endpoint: endpointSearchTweets, Shape: ShapeList,
		QueryParam: "q", ListField: "statuses", DedupeReshares: true,
		Defaults: mergeDefaults(extendedStatusDefaults, map[string]string{"count": "100"})},
	OpSearchUsers: {Name: OpSearchUsers, Method: http.MethodGet, Endpoint: endpointUsersSearch, Shape: ShapeList,
		QueryParam: "q", Defaults: mergeDefaults(extendedUserDefaults, map[string]string{"count": "20"})},
	OpSearchGeo: {Name: OpSearchGeo, Method: http.MethodGet, Endpoint: endpointSearchGeo, Shape: ShapeObject},

	OpTrends:          {Name: OpTrends, Method: http.MethodGet, Endpoint: endpointTrendsPlace, Shape: ShapeList, KeyParam: "id"},
	OpPlacesForTrends: {Name: OpPlacesForTrends, Method: http.MethodGet, Endpoint: endpointTrendsClosest, Shape: ShapeList},

	OpSavedSearches: {Name: OpSavedSearches, Method: http.MethodGet, Endpoint: endpointSavedSearchesList, Shape: ShapeList},
	OpSaveSearch:    {Name: OpSaveSearch, Method: http.MethodPost, Endpoint: endpointSavedSearchesCreate, Shape: ShapeObject, Write: true},
	OpDestroySavedSearch: {Name: OpDestroySavedSearch, Method: http.MethodPost, Endpoint: endpointSavedSearchesDestroy, Shape: ShapeObject,
		Write: true, KeyParam: "id"},

	OpUserLists: {Name: OpUserLists, Method: http.MethodGet, Endpoint: endpointListsList, Shape: ShapeList,
		Defaults: map[string]string{"reverse": "true"}},
	OpListsMemberships: {Name: OpListsMemberships, Method: http.MethodGet, Endpoint: endpointListsMemberships, Shape: ShapeObject,
		Defaults: map[string]string{"count": "200"}},
	OpListMembers: {Name: OpListMembers, Method: http.MethodGet, Endpoint: endpointListsMembers, Shape: ShapeObject,
		KeyParam: "list_id", Defaults: map[string]string{"count": "200", "skip_status": "true", "include_entities": "true"}},
	OpListTimeline: {Name: OpListTimeline, Method: http.MethodGet, Endpoint: endpointListsStatuses, Shape: ShapeList,
		Timeline: true, CursorParam: "max_id", KeyParam: "list_id",
		Defaults: mergeDefaults(extendedStatusDefaults, map[string]string{"count": "200", "include_rts": "true"})},

	OpDirectMessagesList: {Name: OpDirectMessagesList, Method: http.MethodGet, Endpoint: endpointDirectMessagesList, Shape: ShapeObject,
		Defaults: map[string]string{"count": "50"}},
	OpDirectMessagesNew: {Name: OpDirectMessagesNew, Method: http.MethodPost, Endpoint: endpointDirectMessagesNew, Shape: ShapeObject,
		Write: true},

	OpMediaMetadata: {Name: OpMediaMetadata, Method: http.MethodPost, Endpoint: endpointMediaMetadata, Shape: ShapeObject, Write: true,
		KeyParam: "media_id"},

	OpIPInfo: {Name: OpIPInfo, Method: http.MethodGet, Endpoint: endpointIPInfo, Shape: ShapeObject},
}

// Lookup returns the static Operation for a logical name, or nil.
func Lookup(name string) *Operation {
	return operations[name]
}

func mergeDefaults(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
