package offline

import (
	"net/url"
)

// DefaultVersion names the cache generation. Bumping it starts a fresh
// cache; entries stored under older versions are left in place.
const DefaultVersion = "color-splash-v1"

var defaultManifest = []string{
	"./",
	"./index.html",
	"./style.css",
	"./script.js",
	"./images/icon.png",
	"./images/eraser.png",
	"./images/apple.png",
	"./images/banana.png",
	"./images/orange.png",
	"./images/mango.png",
	"./images/watermelon.png",
	"./sounds/brush.mp3",
	"./sounds/eraser.mp3",
	"./sounds/click.mp3",
	"./sounds/fruit-load.mp3",
	"./sounds/background.mp3",
}

// DefaultManifest returns the assets the app needs to run offline.
func DefaultManifest() []string {
	return append([]string(nil), defaultManifest...)
}

var root = &url.URL{Path: "/"}

// Resolve turns a manifest entry, relative to the app root, into the request
// URI it is cached under: "./" becomes "/", "./index.html" "/index.html".
func Resolve(entry string) (string, error) {
	ref, err := url.Parse(entry)
	if err != nil {
		return "", err
	}
	return root.ResolveReference(ref).RequestURI(), nil
}
