// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package agent answers one query end to end.
//
// Each call to Agent.Answer walks a fixed sequence of stages:
//
//	ROUTE -> RETRIEVE -> ASSEMBLE -> SYNTHESIZE
//
// An unresolved route stops after ROUTE with the no-source message.
// Synthesis ends in an answer, a referral or an apology. Nothing is kept
// between calls.
package agent
