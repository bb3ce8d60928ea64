/*
 * Copyright 2024 The Switchyard Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
	"github.com/switchyardhttp/switchyard/pkg/router"
)

// Item is an inventory item in the demonstration catalog
type Item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Images      []Image  `json:"images,omitempty"`
}

// Image is a named image URL attached to an Item
type Image struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// User identifies the user submitting an item update
type User struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
}

var modelMessages = map[string]string{
	"alexnet": "Deep Learning FTW!",
	"lenet":   "LeCNN all the images",
	"resnet":  "Have some residuals",
}

// registerRoutes populates the route table with the demonstration
// application's routes. It runs on startup and again on each config reload.
func registerRoutes(r router.Router) error {
	type appRoute struct {
		method  string
		pattern string
		handler handlers.HandlerFunc
	}
	for _, ar := range []appRoute{
		{http.MethodGet, "/", root},
		{http.MethodGet, "/users/me", readUserMe},
		{http.MethodGet, "/models/{model_name}", getModel},
		{http.MethodGet, "/files/{file_path:path}", readFile},
		{http.MethodGet, "/items", readItems},
		{http.MethodGet, "/items/{item_id}", readUserItem},
		{http.MethodPost, "/items", createItem},
		{http.MethodPut, "/items/{item_id}", updateItem},
		{http.MethodPost, "/index-weights", createIndexWeights},
	} {
		if err := r.RegisterRoute(ar.method, ar.pattern, ar.handler); err != nil {
			return err
		}
	}
	return nil
}

func root(_ context.Context, _ *http.Request,
	_ *params.RequestParams) (*response.Response, error) {
	return response.NewJSON(http.StatusOK,
		map[string]string{"message": "Hello World"})
}

func readUserMe(_ context.Context, _ *http.Request,
	_ *params.RequestParams) (*response.Response, error) {
	return response.NewJSON(http.StatusOK,
		map[string]string{"user_id": "the current user"})
}

func getModel(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	name, _ := p.Get("model_name")
	msg, ok := modelMessages[name]
	if !ok {
		return nil, response.NewError(http.StatusBadRequest,
			fmt.Sprintf("unknown model name: %s", name))
	}
	return response.NewJSON(http.StatusOK,
		map[string]string{"model_name": name, "message": msg})
}

func readFile(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	fp, _ := p.Get("file_path")
	return response.NewJSON(http.StatusOK,
		map[string]string{"file_path": fp})
}

func readUserItem(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	itemID, _ := p.Get("item_id")
	needy, ok := p.Get("needy")
	if !ok {
		return nil, response.NewError(http.StatusBadRequest,
			"missing required parameter: needy")
	}
	skip := 0
	if _, ok := p.Get("skip"); ok {
		var err error
		if skip, err = p.GetInt("skip"); err != nil {
			return nil, response.NewError(http.StatusBadRequest,
				"parameter skip must be an integer")
		}
	}
	var limit *int
	if _, ok := p.Get("limit"); ok {
		l, err := p.GetInt("limit")
		if err != nil {
			return nil, response.NewError(http.StatusBadRequest,
				"parameter limit must be an integer")
		}
		limit = &l
	}
	return response.NewJSON(http.StatusOK, map[string]any{
		"item_id": itemID,
		"needy":   needy,
		"skip":    skip,
		"limit":   limit,
	})
}

func readItems(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	results := map[string]any{
		"items": []map[string]string{{"item_id": "Foo"}, {"item_id": "Bar"}},
	}
	if q, ok := p.Get("item-query"); ok {
		results["q"] = q
	}
	return response.NewJSON(http.StatusOK, results)
}

func createItem(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	var item Item
	if err := bindDocument(p, &item); err != nil {
		return nil, err
	}
	if item.Price <= 0 {
		return nil, response.NewError(http.StatusBadRequest,
			"price must be greater than zero")
	}
	out := map[string]any{
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"tax":         item.Tax,
		"tags":        item.Tags,
		"images":      item.Images,
	}
	if item.Tax != nil {
		out["price_with_tax"] = item.Price + *item.Tax
	}
	return response.NewJSON(http.StatusOK, out)
}

func updateItem(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	itemID, err := p.GetInt("item_id")
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest,
			"parameter item_id must be an integer")
	}
	var doc struct {
		Item       *Item `json:"item"`
		User       *User `json:"user"`
		Importance int   `json:"importance"`
	}
	if err = bindDocument(p, &doc); err != nil {
		return nil, err
	}
	if doc.Item == nil || doc.User == nil {
		return nil, response.NewError(http.StatusBadRequest,
			"body must include item and user")
	}
	if doc.Importance <= 0 {
		return nil, response.NewError(http.StatusBadRequest,
			"importance must be greater than zero")
	}
	results := map[string]any{
		"item_id":    itemID,
		"item":       doc.Item,
		"user":       doc.User,
		"importance": doc.Importance,
	}
	if q, ok := p.Get("q"); ok {
		results["q"] = q
	}
	return response.NewJSON(http.StatusOK, results)
}

func createIndexWeights(_ context.Context, _ *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	var weights map[string]float64
	if err := bindDocument(p, &weights); err != nil {
		return nil, err
	}
	for k := range weights {
		if _, err := strconv.Atoi(k); err != nil {
			return nil, response.NewError(http.StatusBadRequest,
				fmt.Sprintf("weight key must be an integer: %s", k))
		}
	}
	return response.NewJSON(http.StatusOK, weights)
}

// bindDocument re-marshals the decoded JSON body into the provided shape.
// The dispatcher has already rejected syntactically-invalid JSON, so an
// error here means the document shape does not fit v.
func bindDocument(p *params.RequestParams, v any) error {
	if p.Document == nil {
		return response.NewError(http.StatusBadRequest,
			"request requires a JSON body")
	}
	b, err := json.Marshal(p.Document)
	if err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err = json.Unmarshal(b, v); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	return nil
}
