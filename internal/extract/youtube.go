package extract

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// YouTubeSource reads captions and metadata through the public YouTube
// player API.
type YouTubeSource struct {
	client *youtube.Client
}

// NewYouTubeSource creates a YouTubeSource using the default HTTP client.
func NewYouTubeSource() *YouTubeSource {
	return &YouTubeSource{client: &youtube.Client{HTTPClient: http.DefaultClient}}
}

func (s *YouTubeSource) Fetch(ctx context.Context, url string) (string, VideoInfo, error) {
	video, err := s.client.GetVideoContext(ctx, url)
	if err != nil {
		return "", VideoInfo{}, err
	}
	if len(video.CaptionTracks) == 0 {
		return "", VideoInfo{}, ErrNoCaptions
	}

	// First track wins, whatever its language.
	lang := video.CaptionTracks[0].LanguageCode
	segments, err := s.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		if errors.Is(err, youtube.ErrTranscriptDisabled) {
			return "", VideoInfo{}, ErrNoCaptions
		}
		return "", VideoInfo{}, err
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), videoInfo(video), nil
}

func videoInfo(video *youtube.Video) VideoInfo {
	info := VideoInfo{
		Title:       video.Title,
		Description: video.Description,
		Author:      video.Author,
		Views:       video.Views,
		PublishDate: video.PublishDate,
		Length:      video.Duration,
	}
	// Thumbnails are ordered smallest first.
	if n := len(video.Thumbnails); n > 0 {
		info.ThumbnailURL = video.Thumbnails[n-1].URL
	}
	return info
}
