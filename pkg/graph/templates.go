package graph

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetTemplatesList returns all survey templates from the templates list.
func (c *Client) GetTemplatesList(ctx context.Context) ([]Template, error) {
	schema := c.schema.Templates
	selected := strings.Join([]string{schema.TitleField, schema.DescriptionField, schema.QuestionsField}, ",")
	requestURL := fmt.Sprintf("%s%s/items?expand=fields(select=%s)", c.RootURL, c.sitePath(schema.ListTitle), url.PathEscape(selected))

	result, err := c.getData(ctx, requestURL, false)
	if err != nil {
		return nil, err
	}

	items := decodeListItems(result)
	templates := make([]Template, 0, len(items))
	for _, item := range items {
		if item.Fields == nil {
			continue
		}
		templates = append(templates, c.templateFromItem(item))
	}
	return templates, nil
}

func (c *Client) getTemplateByID(ctx context.Context, templateID string) (*Template, error) {
	schema := c.schema.Templates
	selected := strings.Join([]string{schema.TitleField, schema.DescriptionField, schema.QuestionsField}, ",")
	requestURL := fmt.Sprintf("%s%s/items/%s?expand=fields(select=%s)", c.RootURL, c.sitePath(schema.ListTitle), templateID, url.PathEscape(selected))

	result, err := c.getData(ctx, requestURL, false)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	template := c.templateFromItem(decodeListItem(result))
	return &template, nil
}

func (c *Client) templateFromItem(item listItem) Template {
	schema := c.schema.Templates
	return Template{
		ID:           item.ID,
		Title:        item.fieldString(schema.TitleField),
		Description:  item.fieldString(schema.DescriptionField),
		QuestionsIDs: item.fieldLookupIDs(schema.QuestionsField),
	}
}
