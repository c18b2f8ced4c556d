package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/api/types"
)

// Typed façade over Dispatch. Each method maps caller arguments onto the
// canonical parameter set of one logical operation; empty optional
// arguments are dropped by the request builder.

func (e *Engine) VerifyCredentials() <-chan types.Outcome {
	return e.Dispatch(OpVerifyCredentials, nil)
}

func (e *Engine) AccountSettings() <-chan types.Outcome {
	return e.Dispatch(OpAccountSettings, nil)
}

func (e *Engine) HelpConfiguration() <-chan types.Outcome {
	return e.Dispatch(OpHelpConfiguration, nil)
}

func (e *Engine) HelpPrivacy() <-chan types.Outcome {
	return e.Dispatch(OpHelpPrivacy, nil)
}

func (e *Engine) HelpTos() <-chan types.Outcome {
	return e.Dispatch(OpHelpTos, nil)
}

func (e *Engine) Tweet(text, placeID string) <-chan types.Outcome {
	return e.Dispatch(OpTweet, types.Args{"status": text, "place_id": placeID})
}

func (e *Engine) ReplyToTweet(text, replyToStatusID, placeID string) <-chan types.Outcome {
	return e.Dispatch(OpTweet, types.Args{
		"status":                       text,
		"in_reply_to_status_id":        replyToStatusID,
		"auto_populate_reply_metadata": "true",
		"place_id":                     placeID,
	})
}

// TweetWithMedia posts a status referencing previously uploaded media ids.
func (e *Engine) TweetWithMedia(text string, mediaIDs []string, placeID string) <-chan types.Outcome {
	return e.Dispatch(OpTweet, types.Args{
		"status":    text,
		"media_ids": strings.Join(mediaIDs, ","),
		"place_id":  placeID,
	})
}

func (e *Engine) DestroyTweet(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpDestroyTweet, types.Args{"id": statusID})
}

func (e *Engine) Retweet(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpRetweet, types.Args{"id": statusID})
}

// RetweetWithComment quotes a status by attaching its permalink.
func (e *Engine) RetweetWithComment(text, attachmentURL string) <-chan types.Outcome {
	return e.Dispatch(OpTweet, types.Args{"status": text, "attachment_url": attachmentURL})
}

func (e *Engine) Unretweet(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpUnretweet, types.Args{"id": statusID})
}

func (e *Engine) RetweetsFor(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpRetweetsFor, types.Args{"id": statusID, "count": "100"})
}

func (e *Engine) Favorite(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpFavorite, types.Args{"id": statusID})
}

func (e *Engine) Unfavorite(statusID string) <-chan types.Outcome {
	return e.Dispatch(OpUnfavorite, types.Args{"id": statusID})
}

func (e *Engine) Favorites(screenName, maxID string) <-chan types.Outcome {
	return e.Dispatch(OpFavorites, types.Args{"screen_name": screenName, "max_id": maxID})
}

// HomeTimeline fetches the first page when maxID is empty, a continuation
// page otherwise.
func (e *Engine) HomeTimeline(maxID string) <-chan types.Outcome {
	return e.Dispatch(OpHomeTimeline, types.Args{"max_id": maxID})
}

func (e *Engine) MentionsTimeline() <-chan types.Outcome {
	return e.Dispatch(OpMentionsTimeline, nil)
}

func (e *Engine) RetweetTimeline() <-chan types.Outcome {
	return e.Dispatch(OpRetweetTimeline, nil)
}

func (e *Engine) UserTimeline(screenName string, alternate bool) <-chan types.Outcome {
	return e.DispatchAs(OpUserTimeline, types.Args{"screen_name": screenName}, alternate)
}

// ShowStatus fetches a single status. Some callers hand over ids carrying a
// query-string suffix; everything from the first '?' is dropped.
func (e *Engine) ShowStatus(statusID string, alternate bool) <-chan types.Outcome {
	if qm := strings.IndexByte(statusID, '?'); qm >= 0 {
		logrus.Debugf("sanitizing status id %q", statusID)
		statusID = statusID[:qm]
	}
	return e.DispatchAs(OpShowStatus, types.Args{"id": statusID}, alternate)
}

func (e *Engine) ShowUser(screenName string) <-chan types.Outcome {
	return e.Dispatch(OpShowUser, types.Args{"screen_name": screenName})
}

func (e *Engine) ShowUserByID(userID string) <-chan types.Outcome {
	return e.Dispatch(OpShowUser, types.Args{"user_id": userID})
}

func (e *Engine) Followers(screenName string) <-chan types.Outcome {
	return e.Dispatch(OpFollowers, types.Args{"screen_name": screenName})
}

func (e *Engine) Friends(screenName, cursor string) <-chan types.Outcome {
	return e.Dispatch(OpFriends, types.Args{"screen_name": screenName, "cursor": cursor})
}

func (e *Engine) FollowUser(screenName string) <-chan types.Outcome {
	return e.Dispatch(OpFollow, types.Args{"screen_name": screenName})
}

func (e *Engine) UnfollowUser(screenName string) <-chan types.Outcome {
	return e.Dispatch(OpUnfollow, types.Args{"screen_name": screenName})
}

func (e *Engine) SearchTweets(query string) <-chan types.Outcome {
	return e.Dispatch(OpSearchTweets, types.Args{"q": query})
}

func (e *Engine) SearchUsers(query string) <-chan types.Outcome {
	return e.Dispatch(OpSearchUsers, types.Args{"q": query})
}

func (e *Engine) SearchGeo(latitude, longitude string) <-chan types.Outcome {
	return e.Dispatch(OpSearchGeo, types.Args{"lat": latitude, "long": longitude})
}

func (e *Engine) Trends(placeID string) <-chan types.Outcome {
	return e.Dispatch(OpTrends, types.Args{"id": placeID})
}

func (e *Engine) PlacesForTrends(latitude, longitude string) <-chan types.Outcome {
	return e.Dispatch(OpPlacesForTrends, types.Args{"lat": latitude, "long": longitude})
}

func (e *Engine) SavedSearches() <-chan types.Outcome {
	return e.Dispatch(OpSavedSearches, nil)
}

func (e *Engine) SaveSearch(query string) <-chan types.Outcome {
	return e.Dispatch(OpSaveSearch, types.Args{"query": query})
}

func (e *Engine) DestroySavedSearch(searchID string) <-chan types.Outcome {
	return e.Dispatch(OpDestroySavedSearch, types.Args{"id": searchID})
}

func (e *Engine) UserLists() <-chan types.Outcome {
	return e.Dispatch(OpUserLists, nil)
}

func (e *Engine) ListsMemberships() <-chan types.Outcome {
	return e.Dispatch(OpListsMemberships, nil)
}

func (e *Engine) ListMembers(listID string) <-chan types.Outcome {
	return e.Dispatch(OpListMembers, types.Args{"list_id": listID})
}

func (e *Engine) ListTimeline(listID, maxID string) <-chan types.Outcome {
	return e.Dispatch(OpListTimeline, types.Args{"list_id": listID, "max_id": maxID})
}

func (e *Engine) DirectMessagesList(cursor string) <-chan types.Outcome {
	return e.Dispatch(OpDirectMessagesList, types.Args{"cursor": cursor})
}

func (e *Engine) DirectMessagesNew(recipientID, text string) <-chan types.Outcome {
	return e.Dispatch(OpDirectMessagesNew, types.Args{"recipient_id": recipientID, "text": text})
}

// UploadMedia pushes an opaque byte payload as a multipart form and returns
// the remote media object. File handling stays with the caller; this layer
// is bytes in, bytes out.
func (e *Engine) UploadMedia(media []byte) <-chan types.Outcome {
	out := make(chan types.Outcome, 1)
	go func() {
		resp, err := e.transport.PostMultipart(endpointMediaUpload, "media", "media", media, url.Values{}, e.primary)
		if err != nil {
			out <- types.Outcome{Error: err.Error()}
			return
		}
		if !resp.OK() {
			out <- types.Outcome{Error: parseErrorReport(resp.Status, resp.Body).Message}
			return
		}
		obj, ok := decodeObject(resp.Body)
		if !ok {
			out <- types.Outcome{Error: defaultErrorMessage}
			return
		}
		out <- types.Outcome{Object: obj}
	}()
	return out
}

// UploadMediaDescription attaches alt text to an uploaded media id.
func (e *Engine) UploadMediaDescription(mediaID, description string) <-chan types.Outcome {
	return e.Dispatch(OpMediaMetadata, types.Args{"media_id": mediaID, "alt_text": description})
}

func (e *Engine) IPInfo() <-chan types.Outcome {
	return e.Dispatch(OpIPInfo, nil)
}

// Download fetches an arbitrary resource under the primary identity and
// returns the raw bytes and content type.
func (e *Engine) Download(rawURL string) ([]byte, string, error) {
	resp, err := e.transport.Get(rawURL, nil, e.primary)
	if err != nil {
		return nil, "", err
	}
	if !resp.OK() {
		return nil, "", fmt.Errorf("download failed: %s", resp.Status)
	}
	return resp.Body, resp.ContentType(), nil
}
