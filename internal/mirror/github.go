package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

const (
	DefaultGitHubPath    = "data/gems.json"
	DefaultCommitMessage = "Update gems via Admin Panel"
)

// GitHubOptions configures the GitHub contents API remote.
type GitHubOptions struct {
	Token   string
	Owner   string
	Repo    string
	Path    string // file path inside the repository
	Branch  string // optional, default branch when empty
	Message string // commit message
	BaseURL string // optional API root, for GitHub Enterprise or tests

	HTTPClient *http.Client
}

// GitHubRemote stores the collection as a single file in a GitHub
// repository. The blob SHA is the version token.
type GitHubRemote struct {
	client  *github.Client
	owner   string
	repo    string
	path    string
	branch  string
	message string
}

// NewGitHubRemote validates opts and builds the API client.
func NewGitHubRemote(opts GitHubOptions) (*GitHubRemote, error) {
	if opts.Token == "" {
		return nil, errors.New("github token is required")
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, errors.New("github owner and repo are required")
	}
	if opts.Path == "" {
		opts.Path = DefaultGitHubPath
	}
	if opts.Message == "" {
		opts.Message = DefaultCommitMessage
	}

	client := github.NewClient(opts.HTTPClient).WithAuthToken(opts.Token)
	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github api url %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = base
	}

	return &GitHubRemote{
		client:  client,
		owner:   opts.Owner,
		repo:    opts.Repo,
		path:    strings.TrimPrefix(opts.Path, "/"),
		branch:  opts.Branch,
		message: opts.Message,
	}, nil
}

// Version returns the blob SHA of the mirrored file.
func (r *GitHubRemote) Version(ctx context.Context) (string, error) {
	var getOpts *github.RepositoryContentGetOptions
	if r.branch != "" {
		getOpts = &github.RepositoryContentGetOptions{Ref: r.branch}
	}

	file, _, resp, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, r.path, getOpts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", ErrRemoteNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", r.Describe(), err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory, not a file", r.Describe())
	}
	return file.GetSHA(), nil
}

// Put creates or updates the file. GitHub answers 409 when sha is stale.
func (r *GitHubRemote) Put(ctx context.Context, content []byte, version string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(r.message),
		Content: content,
	}
	if version != "" {
		opts.SHA = github.String(version)
	}
	if r.branch != "" {
		opts.Branch = github.String(r.branch)
	}

	if _, _, err := r.client.Repositories.UpdateFile(ctx, r.owner, r.repo, r.path, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Describe(), err)
	}
	return nil
}

func (r *GitHubRemote) Describe() string {
	return fmt.Sprintf("%s/%s:%s", r.owner, r.repo, r.path)
}
