// Package config defines the static configuration of the client discovery
// engine and loads it from YAML.
//
// A Config holds one or more instances. Each instance is one communication
// channel with its own remote node table and subscription retry policy, and
// lists the client services consumed over it. Each client service lists the
// event groups it may subscribe to.
//
// Durations are written as Go duration strings ("100ms", "2s") and are
// converted to main-function ticks by the engine using MainFunctionPeriod.
//
//	main_function_period: 10ms
//	instances:
//	  - name: eth0
//	    max_remote_nodes: 4
//	    services:
//	      - name: radar
//	        service_id: 0x1234
//	        instance_id: 1
//	        major_version: 1
//	        minor_version: 0
//	        auto_require: true
//	        timer:
//	          initial_find_delay_min: 10ms
//	          initial_find_delay_max: 50ms
//	          repetitions_base_delay: 100ms
//	          repetitions_max: 3
//	          ttl: 3
//	        udp: {first: 0, count: 1}
//	        event_groups:
//	          - name: objects
//	            event_group_id: 1
//	            udp_routing: 10
package config
