package extract

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// VideoInfo is the descriptive metadata of a video.
type VideoInfo struct {
	Title        string
	Description  string
	Author       string
	Views        int
	ThumbnailURL string
	PublishDate  time.Time
	Length       time.Duration
}

// VideoSource fetches a video's transcript and metadata in one lookup.
type VideoSource interface {
	// Fetch returns the text of the first available caption track with the
	// video's metadata. It returns ErrNoCaptions when the video has none.
	Fetch(ctx context.Context, url string) (string, VideoInfo, error)
}

type videoHandler struct {
	source VideoSource
	log    logrus.FieldLogger
}

// extract never fails: any problem yields an empty Document and a warning.
func (h videoHandler) extract(ctx context.Context, in Input) (Document, error) {
	empty := Document{Source: in.source(), Metadata: map[string]any{}}
	log := h.log.WithField("url", in.URL)

	if !ValidateYouTubeURL(in.URL) {
		log.Warn("not a valid YouTube url, skipping video")
		return empty, nil
	}

	transcript, info, err := h.source.Fetch(ctx, in.URL)
	if err != nil {
		log.WithError(err).Warn("could not load video transcript")
		return empty, nil
	}
	return Document{
		Text:     normalizeText(transcript),
		Source:   in.source(),
		Metadata: videoMetadata(info),
	}, nil
}

// videoMetadata renders info into the string fields stored on video chunks.
func videoMetadata(info VideoInfo) map[string]any {
	md := map[string]any{
		"title":         info.Title,
		"description":   info.Description,
		"view_count":    strconv.Itoa(info.Views),
		"thumbnail_url": info.ThumbnailURL,
		"length":        fmt.Sprintf("%.2f Minutes", info.Length.Minutes()),
		"author":        info.Author,
	}
	if !info.PublishDate.IsZero() {
		md["publish_date"] = info.PublishDate.Format("02/01/2006")
	} else {
		md["publish_date"] = ""
	}
	return md
}
