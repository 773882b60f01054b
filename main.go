/*
SPDX-License-Identifier: Apache-2.0

Copyright 2025 The Sentry Dashboard Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/keradus/sentry/demo"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	flag.Parse()

	fmt.Println("Starting metrics extraction dashboard...")

	srv, err := demo.SetupDemoServer()
	if err != nil {
		log.Fatalf("Failed to set up server: %v", err)
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/rules", http.StatusFound)
	})

	fmt.Printf("Server running at http://localhost%s/rules\n", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
