// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/peaknote/transcript-service/internal/domain/models"
)

// graphUser is the Graph representation of a directory user.
type graphUser struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// usersPage is one page of a /users listing.
type usersPage struct {
	Value    []graphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// FetchUsers lists all directory users, following @odata.nextLink pagination.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	url := "/users?$select=id,mail,userPrincipalName&$top=100"
	for url != "" {
		resp, err := c.doRequest(ctx, http.MethodGet, url, nil, nil)
		if err != nil {
			return nil, err
		}

		page, err := decodeUsersPage(resp)
		if err != nil {
			return nil, err
		}

		for _, u := range page.Value {
			email := u.Mail
			if email == "" {
				email = u.UserPrincipalName
			}
			users = append(users, models.User{
				OID:   u.ID,
				Email: email,
			})
		}

		url = page.NextLink
	}

	return users, nil
}

func decodeUsersPage(resp *http.Response) (*usersPage, error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, parseErrorResponse(body)
	}

	var page usersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode users page: %w", err)
	}
	return &page, nil
}
