package surveyconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables describing the source site and the SharePoint list
// schema. All list and field names are externally supplied, the backend has
// no embedded schema.
const (
	ENV_SOURCE_SITE_URL = "MEETINGSSURVEY_SOURCE_SITE_URL"

	ENV_APP_ID     = "MEETINGSSURVEY_APP_ID"
	ENV_APP_URI    = "MEETINGSSURVEY_APP_URI"
	ENV_APP_SECRET = "MEETINGSSURVEY_APP_SECRET"

	ENV_QUESTIONS_LIST_TITLE                  = "MEETINGSSURVEY_QUESTIONS_LIST_TITLE"
	ENV_QUESTIONS_LIST_TITLE_FIELD_NAME       = "MEETINGSSURVEY_QUESTIONS_LIST_TITLE_FIELD_NAME"
	ENV_QUESTIONS_LIST_TYPE_FIELD_NAME        = "MEETINGSSURVEY_QUESTIONS_LIST_TYPE_FIELD_NAME"
	ENV_QUESTIONS_LIST_IS_REQUIRED_FIELD_NAME = "MEETINGSSURVEY_QUESTIONS_LIST_IS_REQUIRED_FIELD_NAME"

	ENV_TEMPLATES_LIST_TITLE                  = "MEETINGSSURVEY_TEMPLATES_LIST_TITLE"
	ENV_TEMPLATES_LIST_TITLE_FIELD_NAME       = "MEETINGSSURVEY_TEMPLATES_LIST_TITLE_FIELD_NAME"
	ENV_TEMPLATES_LIST_DESCRIPTION_FIELD_NAME = "MEETINGSSURVEY_TEMPLATES_LIST_DESCRIPTION_FIELD_NAME"
	ENV_TEMPLATES_LIST_QUESTIONS_FIELD_NAME   = "MEETINGSSURVEY_TEMPLATES_LIST_QUESTIONS_FIELD_NAME"

	ENV_POLLS_LIST_TITLE                           = "MEETINGSSURVEY_POLLS_LIST_TITLE"
	ENV_POLLS_LIST_MEETING_ID_FIELD_NAME           = "MEETINGSSURVEY_POLLS_LIST_MEETING_ID_FIELD_NAME"
	ENV_POLLS_LIST_MEETING_ORGANIZER_FIELD_NAME    = "MEETINGSSURVEY_POLLS_LIST_MEETING_ORGANIZER_FIELD_NAME"
	ENV_POLLS_LIST_MEETING_ATTENDEES_FIELD_NAME    = "MEETINGSSURVEY_POLLS_LIST_MEETING_ATTENDEES_FIELD_NAME"
	ENV_POLLS_LIST_POLL_TEMPLATE_FIELD_NAME        = "MEETINGSSURVEY_POLLS_LIST_POLL_TEMPLATE_FIELD_NAME"
	ENV_POLLS_LIST_MEETING_START_DATE_FIELD_NAME   = "MEETINGSSURVEY_POLLS_LIST_MEETING_START_DATE_FIELD_NAME"
	ENV_POLLS_LIST_MEETING_END_DATE_FIELD_NAME     = "MEETINGSSURVEY_POLLS_LIST_MEETING_END_DATE_FIELD_NAME"
	ENV_POLLS_LIST_MEETING_NAME_FIELD_NAME         = "MEETINGSSURVEY_POLLS_LIST_MEETING_NAME_FIELD_NAME"

	ENV_RESPONSES_LIST_TITLE                  = "MEETINGSSURVEY_RESPONSES_LIST_TITLE"
	ENV_RESPONSES_LIST_USER_ID_FIELD_NAME     = "MEETINGSSURVEY_RESPONSES_LIST_USER_ID_FIELD_NAME"
	ENV_RESPONSES_LIST_MEETING_ID_FIELD_NAME  = "MEETINGSSURVEY_RESPONSES_LIST_MEETING_ID_FIELD_NAME"
	ENV_RESPONSES_LIST_TENANT_ID_FIELD_NAME   = "MEETINGSSURVEY_RESPONSES_LIST_TENANT_ID_FIELD_NAME"
	ENV_RESPONSES_LIST_QUESTION_ID_FIELD_NAME = "MEETINGSSURVEY_RESPONSES_LIST_QUESTION_ID_FIELD_NAME"
	ENV_RESPONSES_LIST_RESPONSE_FIELD_NAME    = "MEETINGSSURVEY_RESPONSES_LIST_RESPONSE_FIELD_NAME"
	ENV_RESPONSES_LIST_POLL_ID_FIELD_NAME     = "MEETINGSSURVEY_RESPONSES_LIST_POLL_ID_FIELD_NAME"

	envPrefix = "MEETINGSSURVEY_"
)

type QuestionsListSchema struct {
	ListTitle       string `validate:"required"`
	TitleField      string `validate:"required"`
	TypeField       string `validate:"required"`
	IsRequiredField string `validate:"required"`
}

type TemplatesListSchema struct {
	ListTitle        string `validate:"required"`
	TitleField       string `validate:"required"`
	DescriptionField string `validate:"required"`
	QuestionsField   string `validate:"required"`
}

type PollsListSchema struct {
	ListTitle             string `validate:"required"`
	MeetingIDField        string `validate:"required"`
	MeetingOrganizerField string `validate:"required"`
	MeetingAttendeesField string `validate:"required"`
	TemplateField         string `validate:"required"`
	StartDateField        string `validate:"required"`
	EndDateField          string `validate:"required"`
	MeetingNameField      string `validate:"required"`
}

type ResponsesListSchema struct {
	ListTitle       string `validate:"required"`
	UserIDField     string `validate:"required"`
	MeetingIDField  string `validate:"required"`
	TenantIDField   string `validate:"required"`
	QuestionIDField string `validate:"required"`
	ResponseField   string `validate:"required"`
	PollIDField     string `validate:"required"`
}

// Config is the resolved survey list schema. It is validated once at startup,
// so request builders never have to deal with missing keys.
type Config struct {
	SourceSiteURL string `validate:"required,startswith=http"`

	// derived from SourceSiteURL
	SiteDomain         string `validate:"required"`
	ServerRelativePath string `validate:"required"`

	AppID     string `validate:"required"`
	AppURI    string
	AppSecret string `validate:"required"`

	Questions QuestionsListSchema
	Templates TemplatesListSchema
	Polls     PollsListSchema
	Responses ResponsesListSchema
}

// Load reads the survey schema from environment variables and validates it.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	siteURL := strings.TrimRight(os.Getenv(ENV_SOURCE_SITE_URL), "/")

	cfg := &Config{
		SourceSiteURL: siteURL,
		AppID:         os.Getenv(ENV_APP_ID),
		AppURI:        os.Getenv(ENV_APP_URI),
		AppSecret:     os.Getenv(ENV_APP_SECRET),
		Questions: QuestionsListSchema{
			ListTitle:       os.Getenv(ENV_QUESTIONS_LIST_TITLE),
			TitleField:      os.Getenv(ENV_QUESTIONS_LIST_TITLE_FIELD_NAME),
			TypeField:       os.Getenv(ENV_QUESTIONS_LIST_TYPE_FIELD_NAME),
			IsRequiredField: os.Getenv(ENV_QUESTIONS_LIST_IS_REQUIRED_FIELD_NAME),
		},
		Templates: TemplatesListSchema{
			ListTitle:        os.Getenv(ENV_TEMPLATES_LIST_TITLE),
			TitleField:       os.Getenv(ENV_TEMPLATES_LIST_TITLE_FIELD_NAME),
			DescriptionField: os.Getenv(ENV_TEMPLATES_LIST_DESCRIPTION_FIELD_NAME),
			QuestionsField:   os.Getenv(ENV_TEMPLATES_LIST_QUESTIONS_FIELD_NAME),
		},
		Polls: PollsListSchema{
			ListTitle:             os.Getenv(ENV_POLLS_LIST_TITLE),
			MeetingIDField:        os.Getenv(ENV_POLLS_LIST_MEETING_ID_FIELD_NAME),
			MeetingOrganizerField: os.Getenv(ENV_POLLS_LIST_MEETING_ORGANIZER_FIELD_NAME),
			MeetingAttendeesField: os.Getenv(ENV_POLLS_LIST_MEETING_ATTENDEES_FIELD_NAME),
			TemplateField:         os.Getenv(ENV_POLLS_LIST_POLL_TEMPLATE_FIELD_NAME),
			StartDateField:        os.Getenv(ENV_POLLS_LIST_MEETING_START_DATE_FIELD_NAME),
			EndDateField:          os.Getenv(ENV_POLLS_LIST_MEETING_END_DATE_FIELD_NAME),
			MeetingNameField:      os.Getenv(ENV_POLLS_LIST_MEETING_NAME_FIELD_NAME),
		},
		Responses: ResponsesListSchema{
			ListTitle:       os.Getenv(ENV_RESPONSES_LIST_TITLE),
			UserIDField:     os.Getenv(ENV_RESPONSES_LIST_USER_ID_FIELD_NAME),
			MeetingIDField:  os.Getenv(ENV_RESPONSES_LIST_MEETING_ID_FIELD_NAME),
			TenantIDField:   os.Getenv(ENV_RESPONSES_LIST_TENANT_ID_FIELD_NAME),
			QuestionIDField: os.Getenv(ENV_RESPONSES_LIST_QUESTION_ID_FIELD_NAME),
			ResponseField:   os.Getenv(ENV_RESPONSES_LIST_RESPONSE_FIELD_NAME),
			PollIDField:     os.Getenv(ENV_RESPONSES_LIST_POLL_ID_FIELD_NAME),
		},
	}

	domain, relativePath, err := parseSiteURL(siteURL)
	if err != nil {
		return nil, err
	}
	cfg.SiteDomain = domain
	cfg.ServerRelativePath = relativePath

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("survey configuration is incomplete: %w", err)
	}

	return cfg, nil
}

// parseSiteURL splits a SharePoint site URL into its host and server relative
// path, e.g. https://contoso.sharepoint.com/sites/surveys becomes
// ("contoso.sharepoint.com", "/sites/surveys").
func parseSiteURL(siteURL string) (domain string, relativePath string, err error) {
	if !strings.HasPrefix(siteURL, "http://") && !strings.HasPrefix(siteURL, "https://") {
		return "", "", errors.New("invalid source site URL: " + siteURL)
	}

	parts := strings.SplitN(siteURL, "/sites/", 2)
	domain = strings.SplitN(parts[0], "://", 2)[1]
	if domain == "" {
		return "", "", errors.New("invalid source site URL: " + siteURL)
	}
	if len(parts) > 1 {
		relativePath = "/sites/" + parts[1]
	} else {
		relativePath = "/"
	}
	return domain, relativePath, nil
}

// ClientMap returns the configuration as the flat mapping the tab client
// consumes via GET /getConfig. The app secret is never included.
func (c *Config) ClientMap() map[string]string {
	config := map[string]string{}
	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		if key == ENV_APP_SECRET {
			continue
		}
		config[key] = value
	}
	// the client always needs the normalized site URL
	config[ENV_SOURCE_SITE_URL] = c.SourceSiteURL
	return config
}
